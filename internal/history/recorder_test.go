package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-share/internal/models"
)

func record(i int, tags ...string) models.ShareRecord {
	return models.ShareRecord{
		ID:     fmt.Sprintf("id-%d", i),
		URL:    fmt.Sprintf("https://example.org/%d", i),
		Title:  fmt.Sprintf("page %d", i),
		Tags:   tags,
		SentAt: time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
	}
}

func TestRecordShareNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())

	require.NoError(t, r.RecordShare(ctx, record(1, "#a")))
	require.NoError(t, r.RecordShare(ctx, record(2, "#b")))

	list, err := r.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "id-2", list[0].ID)
	assert.Equal(t, "id-1", list[1].ID)
}

func TestRecordShareEvictsOldest(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())
	for i := 0; i < MaxEntries; i++ {
		require.NoError(t, r.RecordShare(ctx, record(i, "#t")))
	}
	list, err := r.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, list, MaxEntries)
	assert.Equal(t, "id-0", list[MaxEntries-1].ID)

	require.NoError(t, r.RecordShare(ctx, record(MaxEntries, "#t")))
	list, err = r.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, list, MaxEntries)
	assert.Equal(t, fmt.Sprintf("id-%d", MaxEntries), list[0].ID)
	for _, rec := range list {
		assert.NotEqual(t, "id-0", rec.ID)
	}

	// counts are lifetime totals, eviction does not reduce them
	freq, err := r.TagFrequency(ctx)
	require.NoError(t, err)
	assert.Equal(t, MaxEntries+1, freq["#t"])
}

func TestRecordShareAccumulatesCounts(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())
	require.NoError(t, r.RecordShare(ctx, record(1, "#go", "#web")))
	require.NoError(t, r.RecordShare(ctx, record(2, "#go", "#ai")))

	freq, err := r.TagFrequency(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"#go": 2, "#web": 1, "#ai": 1}, freq)
}

func TestRecordShareNormalizesTags(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())
	require.NoError(t, r.RecordShare(ctx, record(1, "go", "#go", " ", "Work")))

	list, err := r.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"#go", "#Work"}, list[0].Tags)

	freq, err := r.TagFrequency(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"#go": 1, "#Work": 1}, freq)
}

func TestClearHistoryKeepsFrequency(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())
	require.NoError(t, r.RecordShare(ctx, record(1, "#go")))
	require.NoError(t, r.ClearHistory(ctx))

	list, err := r.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	freq, err := r.TagFrequency(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, freq["#go"])
}

func TestTopTags(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyTagFrequency, []byte(`{"#tech":3,"#ai":5,"#blog":1}`)))
	r := NewRecorder(store)

	top, err := r.TopTags(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{{Tag: "#ai", Count: 5}, {Tag: "#tech", Count: 3}}, top)

	all, err := r.TopTags(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := r.TopTags(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTopTagsTieOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyTagFrequency, []byte(`{"#b":2,"#c":2,"#a":2}`)))
	top, err := NewRecorder(store).TopTags(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "#a", top[0].Tag)
	assert.Equal(t, "#b", top[1].Tag)
	assert.Equal(t, "#c", top[2].Tag)
}

func TestRecentTags(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())
	require.NoError(t, r.RecordShare(ctx, record(1, "#old", "#go")))
	require.NoError(t, r.RecordShare(ctx, record(2, "#go", "#new")))

	tags, err := r.RecentTags(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"#go", "#new"}, tags)

	tags, err = r.RecentTags(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"#go", "#new", "#old"}, tags)
}

func TestLoadHistoryEmptyAndNull(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := NewRecorder(store)
	list, err := r.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ShareRecord{}, list)

	require.NoError(t, store.Set(ctx, KeyTagFrequency, []byte(`null`)))
	require.NoError(t, r.RecordShare(ctx, record(1, "#x")))
}

type failingStore struct {
	*MemoryStore
	failSet bool
	failGet bool
}

var errQuota = errors.New("quota exceeded")

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errQuota
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errQuota
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()

	r := NewRecorder(&failingStore{MemoryStore: NewMemoryStore(), failSet: true})
	err := r.RecordShare(ctx, record(1, "#a"))
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "write", se.Op)
	assert.Equal(t, KeyHistory, se.Key)
	assert.ErrorIs(t, err, errQuota)

	r = NewRecorder(&failingStore{MemoryStore: NewMemoryStore(), failGet: true})
	_, err = r.TopTags(ctx, 5)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "read", se.Op)
}

func TestCorruptValueIsStorageError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyHistory, []byte(`{broken`)))
	_, err := NewRecorder(store).LoadHistory(ctx)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "decode", se.Op)
}
