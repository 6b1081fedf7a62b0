package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svgholder/svgholder/common/apperrors"
	"github.com/svgholder/svgholder/common/cache"
	"github.com/svgholder/svgholder/common/logger"
	"github.com/svgholder/svgholder/common/models"
	"github.com/svgholder/svgholder/common/validation"
)

// fakeStore is an in-memory SvgStore used to test service semantics
// without a database.
type fakeStore struct {
	records map[uuid.UUID]*models.Svg
	order   []uuid.UUID
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[uuid.UUID]*models.Svg)}
}

func (f *fakeStore) Insert(ctx context.Context, svg *models.Svg) error {
	if f.err != nil {
		return f.err
	}
	cp := *svg
	f.records[svg.ID] = &cp
	f.order = append(f.order, svg.ID)
	return nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]*models.Svg, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Svg
	for i := len(f.order) - 1; i >= 0; i-- {
		if svg, ok := f.records[f.order[i]]; ok {
			cp := *svg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Svg, error) {
	if f.err != nil {
		return nil, f.err
	}
	svg, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	cp := *svg
	return &cp, nil
}

func (f *fakeStore) UpdateByID(ctx context.Context, id uuid.UUID, name, description string) (*models.Svg, error) {
	if f.err != nil {
		return nil, f.err
	}
	svg, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	svg.Name = name
	svg.Description = description
	svg.UpdatedAt = time.Now().UTC()
	cp := *svg
	return &cp, nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeStore) Search(ctx context.Context, q string) ([]*models.Svg, error) {
	if f.err != nil {
		return nil, f.err
	}
	all, _ := f.ListAll(ctx)
	var out []*models.Svg
	for _, svg := range all {
		if containsFold(svg.Name, q) || containsFold(svg.Description, q) {
			out = append(out, svg)
		}
	}
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func testService(store SvgStore) *SvgService {
	return NewSvgService(store, nil, 0, logger.New("error", "text"))
}

func testUpload() *validation.Upload {
	data := []byte(`<svg width="10"><rect/></svg>`)
	return &validation.Upload{
		Filename:    "logo.svg",
		ContentType: validation.SvgMediaType,
		Size:        120,
		Data:        data,
	}
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	svc := testService(newFakeStore())

	svg, err := svc.Create(context.Background(), " Logo ", " A logo ", testUpload())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, svg.ID)
	assert.Equal(t, "Logo", svg.Name)
	assert.Equal(t, "A logo", svg.Description)
	assert.Equal(t, int64(120), svg.FileSize)
	assert.Equal(t, "logo.svg", svg.OriginalName)
	assert.Equal(t, svg.CreatedAt, svg.UpdatedAt)
}

func TestCreate_ValidationFailureLeavesStoreUntouched(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	_, err := svc.Create(context.Background(), "", "desc", testUpload())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, store.records)
}

func TestCreate_StoreFaultIsInternal(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection reset")
	svc := testService(store)

	_, err := svc.Create(context.Background(), "Logo", "A logo", testUpload())
	require.Error(t, err)
	assert.False(t, apperrors.IsValidation(err))
	assert.False(t, apperrors.IsNotFound(err))

	var ie *apperrors.InternalError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "Failed to upload SVG", ie.Message)
}

func TestGet_RoundTripPreservesContent(t *testing.T) {
	svc := testService(newFakeStore())

	created, err := svc.Create(context.Background(), "Logo", "A logo", testUpload())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Content, got.Content)
	assert.Equal(t, created.Name, got.Name)
}

func TestGet_UnknownAndMalformedIDsAreNotFound(t *testing.T) {
	svc := testService(newFakeStore())

	_, err := svc.Get(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Get(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "malformed id is not found, never a crash")
}

func TestSearch_RequiresQuery(t *testing.T) {
	svc := testService(newFakeStore())

	_, err := svc.Search(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.EqualError(t, err, MsgSearchQueryRequired)
}

func TestSearch_CaseInsensitiveAndEmptyResult(t *testing.T) {
	svc := testService(newFakeStore())

	_, err := svc.Create(context.Background(), "Company Logo", "Main brand mark", testUpload())
	require.NoError(t, err)

	found, err := svc.Search(context.Background(), "LOGO")
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := svc.Search(context.Background(), "zzz-this-matches-nothing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdate_RefreshesUpdatedAtOnly(t *testing.T) {
	svc := testService(newFakeStore())

	created, err := svc.Create(context.Background(), "Logo", "A logo", testUpload())
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	updated, err := svc.Update(context.Background(), created.ID.String(), "Logo2", "A logo")
	require.NoError(t, err)

	assert.Equal(t, "Logo2", updated.Name)
	assert.Equal(t, created.Content, updated.Content)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdate_ValidatesBeforeStore(t *testing.T) {
	svc := testService(newFakeStore())

	_, err := svc.Update(context.Background(), "not-a-uuid", "", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err), "field validation runs before id lookup")
}

func TestUpdate_UnknownIDIsNotFound(t *testing.T) {
	svc := testService(newFakeStore())

	_, err := svc.Update(context.Background(), uuid.NewString(), "Logo", "A logo")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDelete_SecondDeleteIsNotFound(t *testing.T) {
	svc := testService(newFakeStore())

	created, err := svc.Create(context.Background(), "Logo", "A logo", testUpload())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID.String()))

	err = svc.Delete(context.Background(), created.ID.String())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestList_NewestFirst(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	first, err := svc.Create(context.Background(), "First", "d", testUpload())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "Second", "d", testUpload())
	require.NoError(t, err)

	svgs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, svgs, 2)
	assert.Equal(t, second.ID, svgs[0].ID)
	assert.Equal(t, first.ID, svgs[1].ID)
}

func TestGet_CacheInvalidatedOnUpdate(t *testing.T) {
	store := newFakeStore()
	log := logger.New("error", "text")
	mem := cache.NewMemoryCache(log)
	defer mem.Close()

	svc := NewSvgService(store, mem, time.Minute, log)

	created, err := svc.Create(context.Background(), "Logo", "A logo", testUpload())
	require.NoError(t, err)

	// prime the cache
	_, err = svc.Get(context.Background(), created.ID.String())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID.String(), "Logo2", "A logo")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Logo2", got.Name, "stale cache entry must not survive an update")
}
