package avatar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopachlager/xmasavatar/internal/adapters/secondary/storage/inmemory"
	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/ports/repository"
	usageLedgerRepo "github.com/kopachlager/xmasavatar/internal/repository/usage_ledger"
	"github.com/kopachlager/xmasavatar/internal/usecases/avatar/themes"
)

type stubTransformer struct {
	mu      sync.Mutex
	result  *domain.Image
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
	prompts []string
}

func (s *stubTransformer) Transform(ctx context.Context, _ *domain.Image, prompt string) (*domain.Image, error) {
	s.mu.Lock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	return s.result, s.err
}

func (s *stubTransformer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubResolver struct {
	img *domain.Image
	err error
}

func (r *stubResolver) FetchAvatar(context.Context, domain.IdentityKey) (*domain.Image, error) {
	return r.img, r.err
}

type countingCelebrator struct {
	calls int
}

func (c *countingCelebrator) Celebrate(context.Context) { c.calls++ }

type fixture struct {
	svc         *Service
	transformer *stubTransformer
	resolver    *stubResolver
	celebrator  *countingCelebrator
}

var (
	sourceImage   = &domain.Image{Data: []byte("source"), MIMEType: "image/jpeg"}
	producedImage = &domain.Image{Data: []byte("festive"), MIMEType: domain.MIMETypePNG}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		transformer: &stubTransformer{result: producedImage},
		resolver:    &stubResolver{img: sourceImage},
		celebrator:  &countingCelebrator{},
	}
	ledger := usageLedgerRepo.New(inmemory.NewKVStore(), log)
	f.svc = New(ledger, f.transformer, f.resolver, themes.MustDefault(), log, WithCelebrator(f.celebrator))
	return f
}

func TestGenerate_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.SetHandle("@Alice")
	require.NoError(t, f.svc.Upload(sourceImage))

	require.NoError(t, f.svc.Generate(ctx, ""))

	s := f.svc.Snapshot()
	assert.Equal(t, domain.StatusCompleted, s.Status)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Error)
	assert.Equal(t, producedImage, s.ProducedImage)

	assert.Equal(t, 1, f.transformer.Calls())
	assert.Equal(t, 1, f.celebrator.calls)
	assert.Equal(t, domain.GenerationLimit-1, f.svc.Remaining(ctx))

	theme, _ := f.svc.Catalog.Get(domain.DefaultThemeID)
	assert.Equal(t, []string{theme.Description}, f.transformer.prompts)
}

func TestGenerate_QuotaScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.SetHandle("@Alice")
	require.NoError(t, f.svc.Upload(sourceImage))

	for i := 0; i < domain.GenerationLimit; i++ {
		require.NoError(t, f.svc.ResetResult())
		require.NoError(t, f.svc.Generate(ctx, ""))
	}
	assert.Equal(t, 0, f.svc.Remaining(ctx))

	err := f.svc.Generate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrQuotaExhausted)
	assert.True(t, domain.IsBusinessError(err))
	assert.Equal(t, domain.GenerationLimit, f.transformer.Calls(), "no gateway call once exhausted")

	s := f.svc.Snapshot()
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Equal(t, "Santa's workshop is full for @alice! Try again in 24 hours.", s.Error)

	// Другой handle имеет свою квоту
	f.svc.SetHandle("bob")
	assert.Equal(t, domain.GenerationLimit, f.svc.Remaining(ctx))
}

func TestGenerate_GatewayFailure(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		err     error
		message string
	}{
		"server message": {
			err:     &domain.GatewayError{StatusCode: 500, Message: "Alchemy failed: model overloaded"},
			message: "Alchemy failed: model overloaded",
		},
		"network error": {
			err:     errors.New("connection refused"),
			message: MsgGatewayBusy,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.transformer.err = tc.err
			require.NoError(t, f.svc.Upload(sourceImage))

			err := f.svc.Generate(ctx, "")
			assert.True(t, domain.IsBusinessError(err))

			s := f.svc.Snapshot()
			assert.Equal(t, domain.StatusIdle, s.Status)
			assert.False(t, s.IsLoading)
			assert.Equal(t, tc.message, s.Error)
			assert.Nil(t, s.ProducedImage)
			assert.Equal(t, sourceImage, s.SourceImage)

			assert.Equal(t, domain.GenerationLimit, f.svc.Remaining(ctx), "failures are not recorded")
			assert.Zero(t, f.celebrator.calls)
		})
	}
}

func TestGenerate_EmptyResultIsFailure(t *testing.T) {
	f := newFixture(t)
	f.transformer.result = &domain.Image{}
	require.NoError(t, f.svc.Upload(sourceImage))

	err := f.svc.Generate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoImageReturned)
	assert.Equal(t, MsgGatewayBusy, f.svc.Snapshot().Error)
}

func TestGenerate_RequiresSource(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Generate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoSourceImage)
	assert.Equal(t, MsgNoSourceImage, f.svc.Snapshot().Error)
	assert.Zero(t, f.transformer.Calls())
}

func TestGenerate_ThemeOverride(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.svc.Upload(sourceImage))
	require.NoError(t, f.svc.SelectTheme("nordic"))

	require.NoError(t, f.svc.Generate(ctx, "voxel"))

	voxel, _ := f.svc.Catalog.Get("voxel")
	assert.Equal(t, []string{voxel.Description}, f.transformer.prompts, "override wins over selected theme")
	assert.Equal(t, domain.ThemeID("voxel"), f.svc.Snapshot().SelectedTheme)

	err := f.svc.Generate(ctx, "easter")
	assert.ErrorIs(t, err, domain.ErrUnknownTheme)
	assert.Equal(t, 1, f.transformer.Calls())
}

func TestGenerate_Busy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.transformer.block = make(chan struct{})
	f.transformer.started = make(chan struct{})
	require.NoError(t, f.svc.Upload(sourceImage))

	done := make(chan error, 1)
	go func() {
		done <- f.svc.Generate(ctx, "")
	}()
	<-f.transformer.started

	s := f.svc.Snapshot()
	assert.True(t, s.IsLoading)
	assert.Equal(t, domain.StatusGenerating, s.Status)

	assert.ErrorIs(t, f.svc.Generate(ctx, ""), domain.ErrBusy)
	assert.ErrorIs(t, f.svc.FetchProfile(ctx), domain.ErrBusy)
	assert.ErrorIs(t, f.svc.Upload(sourceImage), domain.ErrBusy)
	assert.ErrorIs(t, f.svc.ResetResult(), domain.ErrBusy)
	assert.ErrorIs(t, f.svc.ClearAll(), domain.ErrBusy)

	close(f.transformer.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.transformer.Calls())
	assert.Equal(t, domain.StatusCompleted, f.svc.Snapshot().Status)
}

// slowLedger задерживает Remaining, как сетевое хранилище
type slowLedger struct {
	repository.IUsageLedgerRepo
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (l *slowLedger) Remaining(ctx context.Context, key domain.IdentityKey) int {
	l.once.Do(func() {
		close(l.entered)
		<-l.release
	})
	return l.IUsageLedgerRepo.Remaining(ctx, key)
}

func TestGenerate_QuotaCheckDoesNotHoldSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ledger := &slowLedger{
		IUsageLedgerRepo: f.svc.Ledger,
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	f.svc.Ledger = ledger
	require.NoError(t, f.svc.Upload(sourceImage))

	done := make(chan error, 1)
	go func() {
		done <- f.svc.Generate(ctx, "")
	}()
	<-ledger.entered

	snapshots := make(chan domain.Session, 1)
	go func() {
		snapshots <- f.svc.Snapshot()
	}()

	select {
	case s := <-snapshots:
		assert.True(t, s.IsLoading)
		assert.Equal(t, domain.StatusIdle, s.Status)
	case <-time.After(time.Second):
		t.Fatal("Snapshot blocked while the ledger was being read")
	}

	assert.ErrorIs(t, f.svc.Generate(ctx, ""), domain.ErrBusy)
	assert.ErrorIs(t, f.svc.Upload(sourceImage), domain.ErrBusy)

	close(ledger.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.transformer.Calls())
	assert.Equal(t, domain.StatusCompleted, f.svc.Snapshot().Status)
}

func TestGenerate_RotatorRunsOnlyWhileGenerating(t *testing.T) {
	f := newFixture(t)
	f.transformer.block = make(chan struct{})
	f.transformer.started = make(chan struct{})

	var mu sync.Mutex
	var shown []string
	f.svc.Rotator = &TickerRotator{
		Messages: []string{"one", "two"},
		Interval: time.Millisecond,
		OnMessage: func(m string) {
			mu.Lock()
			shown = append(shown, m)
			mu.Unlock()
		},
	}
	require.NoError(t, f.svc.Upload(sourceImage))

	done := make(chan error, 1)
	go func() {
		done <- f.svc.Generate(context.Background(), "")
	}()
	<-f.transformer.started

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(shown) >= 3
	}, time.Second, time.Millisecond)

	close(f.transformer.block)
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, "one", shown[0])
	assert.Equal(t, "two", shown[1])
	after := len(shown)
	mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, after, len(shown), "rotator stopped with generation")
	mu.Unlock()
}

func TestFetchProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.FetchProfile(ctx)
	assert.ErrorIs(t, err, domain.ErrNoHandle)
	assert.Equal(t, MsgNoHandle, f.svc.Snapshot().Error)

	f.svc.SetHandle("@santa")
	require.NoError(t, f.svc.FetchProfile(ctx))
	s := f.svc.Snapshot()
	assert.Equal(t, sourceImage, s.SourceImage)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Empty(t, s.Error)
}

func TestFetchProfile_FailureKeepsSource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uploaded := &domain.Image{Data: []byte("uploaded")}
	require.NoError(t, f.svc.Upload(uploaded))

	f.resolver.err = domain.ErrFetchFailed
	f.svc.SetHandle("ghost")

	err := f.svc.FetchProfile(ctx)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	s := f.svc.Snapshot()
	assert.Equal(t, "Profile lost in the blizzard. Try uploading manually.", s.Error)
	assert.Equal(t, uploaded, s.SourceImage)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.False(t, s.IsLoading)
}

func TestUpload_ClearsErrorAndResult(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.svc.Upload(sourceImage))
	require.NoError(t, f.svc.Generate(ctx, ""))

	f.transformer.err = errors.New("boom")
	require.Error(t, f.svc.Generate(ctx, ""))
	require.NotEmpty(t, f.svc.Snapshot().Error)

	next := &domain.Image{Data: []byte("next")}
	require.NoError(t, f.svc.Upload(next))

	s := f.svc.Snapshot()
	assert.Equal(t, next, s.SourceImage)
	assert.Nil(t, s.ProducedImage)
	assert.Empty(t, s.Error)
	assert.Equal(t, domain.StatusIdle, s.Status)

	assert.ErrorIs(t, f.svc.Upload(nil), domain.ErrNoSourceImage)
}

func TestUploadFile(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	png := filepath.Join(dir, "me.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))
	require.NoError(t, f.svc.UploadFile(png))
	assert.Equal(t, domain.MIMETypePNG, f.svc.Snapshot().SourceImage.MIMEType)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("just text"), 0o600))
	err := f.svc.UploadFile(txt)
	assert.ErrorIs(t, err, domain.ErrNoSourceImage)
	assert.Equal(t, MsgNotAnImage, f.svc.Snapshot().Error)

	err = f.svc.UploadFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	assert.False(t, domain.IsBusinessError(err))
}

func TestResetResult_KeepsSourceAndHandle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.SetHandle("@Alice")
	require.NoError(t, f.svc.Upload(sourceImage))
	require.NoError(t, f.svc.Generate(ctx, ""))

	require.NoError(t, f.svc.ResetResult())

	s := f.svc.Snapshot()
	assert.Nil(t, s.ProducedImage)
	assert.Empty(t, s.Error)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Equal(t, sourceImage, s.SourceImage)
	assert.Equal(t, "@Alice", s.Handle)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.SetHandle("@Alice")
	require.NoError(t, f.svc.Upload(sourceImage))
	require.NoError(t, f.svc.Generate(ctx, ""))

	require.NoError(t, f.svc.ClearAll())

	s := f.svc.Snapshot()
	assert.Nil(t, s.SourceImage)
	assert.Nil(t, s.ProducedImage)
	assert.Empty(t, s.Error)
	assert.Empty(t, s.Handle)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.True(t, s.Identity().IsAnonymous())
	assert.Equal(t, domain.GenerationLimit, f.svc.Remaining(ctx), "anonymous has its own quota")
}

func TestSelectTheme(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.SelectTheme("orc"))
	assert.Equal(t, domain.ThemeID("orc"), f.svc.Snapshot().SelectedTheme)

	assert.ErrorIs(t, f.svc.SelectTheme("easter"), domain.ErrUnknownTheme)
	assert.Equal(t, domain.ThemeID("orc"), f.svc.Snapshot().SelectedTheme)
	assert.Empty(t, f.svc.Snapshot().Error)
}

func TestResultFileName(t *testing.T) {
	assert.Equal(t, "xmas-avatar-alice.png", ResultFileName("@Alice"))
	assert.Equal(t, "xmas-avatar-festive.png", ResultFileName(""))
	assert.True(t, strings.HasSuffix(ResultFileName("x"), ".png"))
}
