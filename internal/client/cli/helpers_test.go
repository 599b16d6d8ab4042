package cli

import (
	"bytes"
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/client"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakeAPI struct {
	client.Client

	mu          sync.Mutex
	submitted   []models.OfflineAction
	submitErr   error
	dashboard   *models.Dashboard
	profile     *models.Profile
	updated     []models.Profile
	uploadKey   string
	uploadURL   string
	contentType string
}

func (f *fakeAPI) Submit(_ context.Context, kind models.Kind, p *models.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, models.OfflineAction{Type: kind, Payload: p})
	return nil
}

func (f *fakeAPI) Dashboard(context.Context) (*models.Dashboard, error) {
	if f.dashboard == nil {
		return &models.Dashboard{}, nil
	}
	return f.dashboard, nil
}

func (f *fakeAPI) Profile(context.Context) (*models.Profile, error) {
	return f.profile, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, p models.Profile) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, p)
	return &p, nil
}

func (f *fakeAPI) RequestAvatarUpload(_ context.Context, contentType string) (string, string, error) {
	f.contentType = contentType
	return f.uploadKey, f.uploadURL, nil
}

type staticSignal struct {
	connectivity.Signal
	online bool
}

func (s staticSignal) Online(context.Context) bool { return s.online }

type harness struct {
	api  *fakeAPI
	meta metadata.Repository
	sig  connectivity.Signal
	app  *App
}

func newHarness(t *testing.T, online bool) *harness {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	return &harness{
		api:  &fakeAPI{},
		meta: metadata.NewSQLiteRepository(db),
		sig:  staticSignal{online: online},
	}
}

// run executes the command line against the harness and returns stdout.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	factory := func(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
		cfg.UserID = "user-1"
		h.app = newApp(cfg, logging.Discard(), h.meta, h.api, h.sig)
		return h.app, nil
	}

	root := NewRootCommand(factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
