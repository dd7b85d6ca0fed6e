package vault

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"docvault/internal/blobstore"
	"docvault/internal/store"
)

type testEnv struct {
	svc      *Service
	store    *store.Store
	blobRoot string
}

func testService(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "vault.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	blobRoot := filepath.Join(dir, "blobs")
	cas, err := blobstore.NewLocalCAS(blobRoot)
	if err != nil {
		t.Fatalf("new local cas: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{svc: New(st, cas, logger), store: st, blobRoot: blobRoot}
}

func (e *testEnv) countBlobObjects(t *testing.T) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(filepath.Join(e.blobRoot, "sha256"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk blob root: %v", err)
	}
	return count
}

func (e *testEnv) mustCreate(t *testing.T, owner, path, body string) {
	t.Helper()
	if _, err := e.svc.CreateRevision(context.Background(), owner, path, strings.NewReader(body)); err != nil {
		t.Fatalf("create %s %s: %v", owner, path, err)
	}
}

func (e *testEnv) readBody(t *testing.T, owner, path, selector string) string {
	t.Helper()
	_, rc, err := e.svc.GetRevision(context.Background(), owner, path, selector)
	if err != nil {
		t.Fatalf("get %s %s rev=%q: %v", owner, path, selector, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestCreateThenUpdateServesLatest(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	rev0, err := env.svc.CreateRevision(ctx, "owner-a", "report.txt", strings.NewReader("# v0"))
	if err != nil {
		t.Fatalf("create v0: %v", err)
	}
	if rev0.Version != 0 {
		t.Fatalf("expected version 0, got %d", rev0.Version)
	}

	rev1, err := env.svc.CreateRevision(ctx, "owner-a", "report.txt", strings.NewReader("# v1 UPDATED"))
	if err != nil {
		t.Fatalf("create v1: %v", err)
	}
	if rev1.Version != 1 {
		t.Fatalf("expected version 1, got %d", rev1.Version)
	}

	summaries, err := env.svc.ListDocuments(ctx, "owner-a")
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(summaries) != 1 || summaries[0].NextVersion != 2 {
		t.Fatalf("expected one document with counter 2, got %+v", summaries)
	}
	if summaries[0].Path != "/report.txt" {
		t.Fatalf("expected normalized path /report.txt, got %s", summaries[0].Path)
	}

	if body := env.readBody(t, "owner-a", "report.txt", ""); body != "# v1 UPDATED" {
		t.Fatalf("latest should serve v1 body, got %q", body)
	}
	if body := env.readBody(t, "owner-a", "report.txt", "0"); body != "# v0" {
		t.Fatalf("explicit revision 0 should serve v0 body, got %q", body)
	}
}

func TestIdenticalContentDeduplicates(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	rev0, err := env.svc.CreateRevision(ctx, "owner-a", "x.txt", strings.NewReader("same"))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	rev1, err := env.svc.CreateRevision(ctx, "owner-a", "x.txt", strings.NewReader("same"))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if rev0.SHA256 != rev1.SHA256 {
		t.Fatalf("expected equal digests, got %s and %s", rev0.SHA256, rev1.SHA256)
	}
	if rev0.Version != 0 || rev1.Version != 1 {
		t.Fatalf("expected versions 0 and 1, got %d and %d", rev0.Version, rev1.Version)
	}

	summaries, err := env.svc.ListDocuments(ctx, "owner-a")
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if summaries[0].NextVersion != 2 {
		t.Fatalf("expected counter 2, got %d", summaries[0].NextVersion)
	}

	if got := env.countBlobObjects(t); got != 1 {
		t.Fatalf("expected exactly one physical blob, got %d", got)
	}
}

func TestGlobalDedupAcrossOwners(t *testing.T) {
	env := testService(t)

	env.mustCreate(t, "owner-a", "a.txt", "shared bytes")
	env.mustCreate(t, "owner-b", "b.txt", "shared bytes")

	if got := env.countBlobObjects(t); got != 1 {
		t.Fatalf("expected cross-owner dedup to one blob, got %d", got)
	}
}

func TestConcurrentCreatorsGetDenseVersions(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	const workers = 10
	versions := make(chan int, workers)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rev, err := env.svc.CreateRevision(ctx, "owner-a", "hot.txt", strings.NewReader(strings.Repeat("x", n+1)))
			if err != nil {
				errs <- err
				return
			}
			versions <- rev.Version
		}(i)
	}
	wg.Wait()
	close(versions)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}
	seen := map[int]bool{}
	for v := range versions {
		if seen[v] {
			t.Fatalf("version %d assigned twice", v)
		}
		seen[v] = true
	}
	for v := 0; v < workers; v++ {
		if !seen[v] {
			t.Fatalf("expected dense set {0..%d}, missing %d", workers-1, v)
		}
	}
}

func TestEmptyUploadRejected(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	_, err := env.svc.CreateRevision(ctx, "owner-a", "empty.txt", strings.NewReader(""))
	if !IsValidation(err) {
		t.Fatalf("expected validation error for empty content, got %v", err)
	}
	_, err = env.svc.CreateRevision(ctx, "owner-a", "nil.txt", nil)
	if !IsValidation(err) {
		t.Fatalf("expected validation error for nil content, got %v", err)
	}
	_, err = env.svc.CreateRevision(ctx, "owner-a", "  ", strings.NewReader("x"))
	if !IsValidation(err) {
		t.Fatalf("expected validation error for blank path, got %v", err)
	}
}

func TestNonIntegerRevisionSelectorIsNotFound(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	env.mustCreate(t, "owner-a", "doc.txt", "body")

	_, _, err := env.svc.GetRevision(ctx, "owner-a", "doc.txt", "not-a-number")
	if !IsNotFound(err) {
		t.Fatalf("expected not found for non-integer selector, got %v", err)
	}
	_, _, err = env.svc.GetRevision(ctx, "owner-a", "doc.txt", "99")
	if !IsNotFound(err) {
		t.Fatalf("expected not found for out-of-range selector, got %v", err)
	}
}

func TestOwnerIsolation(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	env.mustCreate(t, "owner-a", "secret.txt", "classified")

	_, _, err := env.svc.GetRevision(ctx, "owner-b", "secret.txt", "")
	if !IsNotFound(err) {
		t.Fatalf("expected not found for another owner, got %v", err)
	}
	if err := env.svc.DeleteRevision(ctx, "owner-b", "secret.txt", ""); !IsNotFound(err) {
		t.Fatalf("expected not found deleting another owner's document, got %v", err)
	}

	summaries, err := env.svc.ListDocuments(ctx, "owner-b")
	if err != nil {
		t.Fatalf("list owner-b: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected owner-b to see nothing, got %v", summaries)
	}
}

func TestDeleteRepairsCounterAndKeepsOthers(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	for _, body := range []string{"v0", "v1", "v2"} {
		env.mustCreate(t, "owner-a", "test.txt", body)
	}

	if err := env.svc.DeleteRevision(ctx, "owner-a", "test.txt", "0"); err != nil {
		t.Fatalf("delete version 0: %v", err)
	}

	revs, err := env.svc.ListRevisions(ctx, "owner-a", "test.txt")
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if len(revs) != 2 || revs[0].Version != 2 || revs[1].Version != 1 {
		t.Fatalf("expected surviving versions {2,1}, got %v", revs)
	}

	summaries, err := env.svc.ListDocuments(ctx, "owner-a")
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if summaries[0].NextVersion != 3 {
		t.Fatalf("expected repaired counter 3, got %d", summaries[0].NextVersion)
	}

	// The next upload continues after the highest survivor.
	rev, err := env.svc.CreateRevision(ctx, "owner-a", "test.txt", strings.NewReader("v3"))
	if err != nil {
		t.Fatalf("create after delete: %v", err)
	}
	if rev.Version != 3 {
		t.Fatalf("expected version 3, got %d", rev.Version)
	}
}

func TestDeleteDefaultsToLatest(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	env.mustCreate(t, "owner-a", "doc.txt", "old")
	env.mustCreate(t, "owner-a", "doc.txt", "new")

	if err := env.svc.DeleteRevision(ctx, "owner-a", "doc.txt", ""); err != nil {
		t.Fatalf("delete default: %v", err)
	}
	if body := env.readBody(t, "owner-a", "doc.txt", ""); body != "old" {
		t.Fatalf("expected latest deleted leaving old body, got %q", body)
	}
}

func TestDeleteLastRevisionRemovesDocument(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	env.mustCreate(t, "owner-a", "solo.txt", "only")
	if err := env.svc.DeleteRevision(ctx, "owner-a", "solo.txt", ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, _, err := env.svc.GetRevision(ctx, "owner-a", "solo.txt", "")
	if !IsNotFound(err) {
		t.Fatalf("expected document gone, got %v", err)
	}
	if got := env.countBlobObjects(t); got != 0 {
		t.Fatalf("expected blob reclaimed, got %d objects", got)
	}
}

func TestDeleteKeepsSharedBlob(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	env.mustCreate(t, "owner-a", "a.txt", "shared")
	env.mustCreate(t, "owner-b", "b.txt", "shared")
	env.mustCreate(t, "owner-a", "c.txt", "alone")

	if err := env.svc.DeleteRevision(ctx, "owner-a", "a.txt", ""); err != nil {
		t.Fatalf("delete shared: %v", err)
	}
	if got := env.countBlobObjects(t); got != 2 {
		t.Fatalf("expected shared blob kept, got %d objects", got)
	}
	if body := env.readBody(t, "owner-b", "b.txt", ""); body != "shared" {
		t.Fatalf("expected owner-b copy intact, got %q", body)
	}

	if err := env.svc.DeleteRevision(ctx, "owner-a", "c.txt", ""); err != nil {
		t.Fatalf("delete unshared: %v", err)
	}
	if got := env.countBlobObjects(t); got != 1 {
		t.Fatalf("expected unshared blob reclaimed, got %d objects", got)
	}
}

func TestCreateAfterFullDeleteStartsAtZero(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	env.mustCreate(t, "owner-a", "cycle.txt", "gen1")
	if err := env.svc.DeleteRevision(ctx, "owner-a", "cycle.txt", ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rev, err := env.svc.CreateRevision(ctx, "owner-a", "cycle.txt", strings.NewReader("gen2"))
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if rev.Version != 0 {
		t.Fatalf("fresh document should restart at 0, got %d", rev.Version)
	}
}

func TestRevisionMetadata(t *testing.T) {
	env := testService(t)
	ctx := context.Background()

	rev, err := env.svc.CreateRevision(ctx, "owner-a", "meta.txt", strings.NewReader("12345"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rev.SizeBytes != 5 {
		t.Fatalf("expected size 5, got %d", rev.SizeBytes)
	}
	if len(rev.SHA256) != 64 {
		t.Fatalf("expected hex sha256, got %q", rev.SHA256)
	}
	if rev.CreatedAt.IsZero() || rev.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %+v", rev)
	}
	if got := rev.Address("/meta.txt"); got != "/meta.txt?revision=0" {
		t.Fatalf("unexpected revision address %q", got)
	}
}
