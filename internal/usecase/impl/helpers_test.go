package impl

import (
	"io"
	"log/slog"
	"time"

	mocksrepo "careid/internal/mocks/repository"
	mockssvc "careid/internal/mocks/service"

	"github.com/stretchr/testify/mock"
)

// testNow is the fixed clock used by every test in this package.
var testNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

type serviceMocks struct {
	repo   *mocksrepo.UserRepository
	hasher *mockssvc.PasswordHasher
	keyGen *mockssvc.KeyGenerator
	cache  *mockssvc.FakeUserCache
	mirror *mockssvc.SearchMirror
	qr     *mockssvc.QRCodeService
	alerts *mockssvc.AlertNotifier
}

func newTestService() (*accountService, *serviceMocks) {
	m := &serviceMocks{
		repo:   new(mocksrepo.UserRepository),
		hasher: new(mockssvc.PasswordHasher),
		keyGen: new(mockssvc.KeyGenerator),
		cache:  mockssvc.NewFakeUserCache(),
		mirror: new(mockssvc.SearchMirror),
		qr:     new(mockssvc.QRCodeService),
		alerts: new(mockssvc.AlertNotifier),
	}
	m.alerts.On("PushSecurityAlert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	srv := &accountService{
		txManager: &mocksrepo.PassthroughTransactionManager{
			Factory: &mocksrepo.StubFactory{Repo: m.repo},
		},
		userRepo:  m.repo,
		hasher:    m.hasher,
		keyGen:    m.keyGen,
		userCache: m.cache,
		mirror:    m.mirror,
		qrService: m.qr,
		alerts:    m.alerts,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return testNow },
	}

	return srv, m
}
