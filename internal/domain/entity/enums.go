// Package entity contains the core business objects of the project.
package entity

// Sex is the biological sex recorded on a subject profile.
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
	SexOther  Sex = "OTHER"
)

// IsValid checks if the Sex is a known value. The empty string is accepted as
// "not recorded".
func (s Sex) IsValid() bool {
	switch s {
	case "", SexMale, SexFemale, SexOther:
		return true
	default:
		return false
	}
}

// BloodGroup is one of the eight canonical blood groups.
type BloodGroup string

const (
	BloodGroupAPositive  BloodGroup = "A_POSITIVE"
	BloodGroupANegative  BloodGroup = "A_NEGATIVE"
	BloodGroupBPositive  BloodGroup = "B_POSITIVE"
	BloodGroupBNegative  BloodGroup = "B_NEGATIVE"
	BloodGroupABPositive BloodGroup = "AB_POSITIVE"
	BloodGroupABNegative BloodGroup = "AB_NEGATIVE"
	BloodGroupOPositive  BloodGroup = "O_POSITIVE"
	BloodGroupONegative  BloodGroup = "O_NEGATIVE"
)

// IsValid checks if the BloodGroup is a known value. The empty string is
// accepted as "not recorded".
func (b BloodGroup) IsValid() bool {
	switch b {
	case "", BloodGroupAPositive, BloodGroupANegative,
		BloodGroupBPositive, BloodGroupBNegative,
		BloodGroupABPositive, BloodGroupABNegative,
		BloodGroupOPositive, BloodGroupONegative:
		return true
	default:
		return false
	}
}
