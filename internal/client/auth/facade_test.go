package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	serverauth "github.com/tasktrack-io/tasktrack/internal/auth"
	"github.com/tasktrack-io/tasktrack/internal/client/api"
	"github.com/tasktrack-io/tasktrack/internal/client/session"
	"github.com/tasktrack-io/tasktrack/internal/config"
	serverhttp "github.com/tasktrack-io/tasktrack/internal/http"
	"github.com/tasktrack-io/tasktrack/internal/logging"
	"github.com/tasktrack-io/tasktrack/internal/task"
	"github.com/tasktrack-io/tasktrack/internal/user"
)

// newTestServer runs the real router over in-memory repositories so the
// facade is exercised against actual server semantics.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "dev", TrustedOrigins: []string{"http://localhost:3000"}},
	}

	tokens, err := serverauth.NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	logger := logging.NewLogger(true)
	authService := serverauth.NewService(user.NewMemoryRepository(), tokens, serverauth.NewHasher(), logger, time.Hour)

	router := serverhttp.NewRouter(
		cfg,
		serverauth.NewHandler(authService),
		serverauth.NewMiddleware(tokens),
		task.NewHandler(task.NewMemoryRepository()),
		logger,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newFacade(t *testing.T, srv *httptest.Server) (*Facade, *session.Store) {
	t.Helper()
	store := session.NewStore(nil)
	apiClient := api.New(srv.URL, store)
	return NewFacade(apiClient, store), store
}

func TestFacade_SignupEstablishesSession(t *testing.T) {
	srv := newTestServer(t)
	facade, store := newFacade(t, srv)
	ctx := context.Background()

	require.NoError(t, facade.Signup(ctx, "Ann", "ann@x.com", "secret-password"))

	state := store.Get()
	require.True(t, state.Authenticated())
	require.Equal(t, "ann@x.com", state.User.Email)
	require.Equal(t, "Ann", state.User.Name)
}

func TestFacade_LoginFailureLeavesSessionUntouched(t *testing.T) {
	srv := newTestServer(t)
	facade, store := newFacade(t, srv)
	ctx := context.Background()

	err := facade.Login(ctx, "nobody@x.com", "whatever8chars")
	require.Error(t, err)
	require.False(t, store.Get().Authenticated())

	// The server's reason is preserved for the UI
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.NotEmpty(t, apiErr.Message)
	require.Equal(t, 401, apiErr.Status)
}

func TestFacade_SignupDuplicateReportsReason(t *testing.T) {
	srv := newTestServer(t)
	facade, store := newFacade(t, srv)
	ctx := context.Background()

	require.NoError(t, facade.Signup(ctx, "Ann", "ann@x.com", "secret-password"))
	require.NoError(t, facade.Logout(ctx))

	err := facade.Signup(ctx, "Ann Again", "ann@x.com", "other-password")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSignupLoginFailed)
	require.False(t, store.Get().Authenticated())
}

func TestFacade_LoginAfterLogout(t *testing.T) {
	srv := newTestServer(t)
	facade, store := newFacade(t, srv)
	ctx := context.Background()

	require.NoError(t, facade.Signup(ctx, "Ann", "ann@x.com", "secret-password"))
	require.NoError(t, facade.Logout(ctx))
	require.False(t, store.Get().Authenticated())

	require.NoError(t, facade.Login(ctx, "ann@x.com", "secret-password"))
	require.True(t, store.Get().Authenticated())
}

func TestFacade_ChangePassword(t *testing.T) {
	srv := newTestServer(t)
	facade, store := newFacade(t, srv)
	ctx := context.Background()

	require.NoError(t, facade.Signup(ctx, "Ann", "ann@x.com", "old-password"))

	require.NoError(t, facade.ChangePassword(ctx, "old-password", "new-password"))

	// Session and token remain valid after the change
	require.True(t, store.Get().Authenticated())

	require.NoError(t, facade.Logout(ctx))
	require.Error(t, facade.Login(ctx, "ann@x.com", "old-password"))
	require.NoError(t, facade.Login(ctx, "ann@x.com", "new-password"))
}

func TestFacade_ChangePasswordRequiresSession(t *testing.T) {
	srv := newTestServer(t)
	facade, _ := newFacade(t, srv)

	require.Error(t, facade.ChangePassword(context.Background(), "a-password", "b-password"))
}

func TestFacade_TaskCallsCarrySessionToken(t *testing.T) {
	srv := newTestServer(t)
	store := session.NewStore(nil)
	apiClient := api.New(srv.URL, store)
	facade := NewFacade(apiClient, store)
	ctx := context.Background()

	// Anonymous: protected surface refuses
	_, err := apiClient.ListTasks(ctx)
	require.True(t, api.IsStatus(err, 401))

	require.NoError(t, facade.Signup(ctx, "Ann", "ann@x.com", "secret-password"))

	created, err := apiClient.CreateTask(ctx, "Buy milk", "2 liters", false)
	require.NoError(t, err)

	tasks, err := apiClient.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, created.ID, tasks[0].ID)

	// After logout the token stops being sent and the call fails again
	require.NoError(t, facade.Logout(ctx))
	_, err = apiClient.ListTasks(ctx)
	require.True(t, api.IsStatus(err, 401))
}
