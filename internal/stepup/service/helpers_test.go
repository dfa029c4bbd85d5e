package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/internal/stepup/store/drivers/sqlite"
	"github.com/shiftwise/stepup/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// captureSender records the last delivered code instead of sending it.
type captureSender struct {
	mu         sync.Mutex
	lastCode   string
	lastMethod domain.Method
	lastUser   string
}

func (s *captureSender) Send(_ context.Context, user domain.User, method domain.Method, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCode = code
	s.lastMethod = method
	s.lastUser = user.ID
	return nil
}

func (s *captureSender) last() (string, domain.Method) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCode, s.lastMethod
}

// testEnv wires the full service stack against an in-memory database.
type testEnv struct {
	store    store.Store
	sender   *captureSender
	limiter  *RateLimiter
	sessions *SessionService
	devices  *DeviceService
	delivery *DeliveryService
	enroll   *EnrollService
	verify   *VerifyService
	status   *StatusService
	settings *SettingsService
	users    *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	sender := &captureSender{}
	limiter := &RateLimiter{Store: st}
	sessions := &SessionService{Store: st}
	devices := &DeviceService{Store: st}
	delivery := &DeliveryService{Store: st, Sender: sender, Limiter: limiter}

	return &testEnv{
		store:    st,
		sender:   sender,
		limiter:  limiter,
		sessions: sessions,
		devices:  devices,
		delivery: delivery,
		enroll:   &EnrollService{Store: st, Delivery: delivery, Limiter: limiter, Issuer: "ShiftWise"},
		verify:   &VerifyService{Store: st, Delivery: delivery, Sessions: sessions, Devices: devices, Limiter: limiter},
		status:   &StatusService{Store: st, Sessions: sessions, Devices: devices},
		settings: &SettingsService{Store: st},
		users:    &UserService{Store: st},
	}
}

func seedUser(t *testing.T, env *testEnv, id, username string, admin bool) domain.User {
	t.Helper()

	phone := "+15550100"
	user, err := env.users.Upsert(context.Background(), domain.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Phone:    &phone,
		IsAdmin:  admin,
	})
	require.NoError(t, err)
	return user
}

// enableEmail2FA walks the user through email setup and returns the backup
// codes handed out at activation.
func enableEmail2FA(t *testing.T, env *testEnv, userID string) []string {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, env.enroll.SetupDelivery(ctx, userID, domain.MethodEmail, ""))
	code, method := env.sender.last()
	require.Equal(t, domain.MethodEmail, method)

	backupCodes, err := env.enroll.ActivateDelivery(ctx, userID, code)
	require.NoError(t, err)
	return backupCodes
}
