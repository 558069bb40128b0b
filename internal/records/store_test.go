package records

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"dmb-chatter/internal/storage"
)

type memBackend[T any] struct {
	items   []T
	saves   int
	failErr error
}

func (m *memBackend[T]) Load() ([]T, error) { return append([]T{}, m.items...), nil }

func (m *memBackend[T]) Save(items []T) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.items = append([]T{}, items...)
	return nil
}

func newRetorts(t *testing.T, seed ...Retort) (*Retorts, *memBackend[Retort]) {
	t.Helper()
	b := &memBackend[Retort]{items: seed}
	s, err := OpenRetorts(b)
	require.NoError(t, err)
	return s, b
}

func TestRetortAddThenFind(t *testing.T) {
	s, b := newRetorts(t)

	r, err := s.Add(Retort{Question: "ping", Answer: "pong"})
	require.NoError(t, err)
	require.Equal(t, uint(1), r.ID)

	got, ok := s.Find("PING ")
	require.True(t, ok)
	require.Equal(t, "pong", got.Answer)
	require.Equal(t, 1, b.saves)
	require.Equal(t, []Retort{{ID: 1, Question: "ping", Answer: "pong"}}, b.items)
}

func TestRetortAddValidation(t *testing.T) {
	cases := []struct {
		q, a string
	}{
		{"", ""}, {"", "val1"}, {"  ", "val1"}, {"key1", ""}, {"key1", "  "}, {"  ", "  "},
	}
	s, b := newRetorts(t)
	for _, c := range cases {
		_, err := s.Add(Retort{Question: c.q, Answer: c.a})
		require.ErrorIs(t, err, ErrInvalid, "q=%q a=%q", c.q, c.a)
	}
	require.True(t, s.IsEmpty())
	require.Zero(t, b.saves)
}

func TestRetortAddDuplicate(t *testing.T) {
	s, b := newRetorts(t)
	_, err := s.Add(Retort{Question: "key1", Answer: "val1"})
	require.NoError(t, err)

	_, err = s.Add(Retort{Question: "key1", Answer: "val1"})
	require.ErrorIs(t, err, ErrDuplicate)
	require.Equal(t, 1, s.Count())
	require.Equal(t, 1, b.saves)
}

func TestRetortAddSameQuestionNewAnswerIsDuplicate(t *testing.T) {
	s, b := newRetorts(t)
	_, err := s.Add(Retort{Question: "key1", Answer: "val1"})
	require.NoError(t, err)

	_, err = s.Add(Retort{Question: "Key1", Answer: "val2"})
	require.ErrorIs(t, err, ErrDuplicate)
	require.Equal(t, 1, s.Count())
	got, _ := s.Find("key1")
	require.Equal(t, "val1", got.Answer)
	require.Equal(t, 1, b.saves)
	require.Equal(t, "val1", b.items[0].Answer)
}

func TestLoadResyncsIDs(t *testing.T) {
	s, _ := newRetorts(t,
		Retort{ID: 3, Question: "a", Answer: "1"},
		Retort{ID: 7, Question: "b", Answer: "2"},
	)
	require.Equal(t, uint(7), s.MaxID())
	r, err := s.Add(Retort{Question: "c", Answer: "3"})
	require.NoError(t, err)
	require.Equal(t, uint(8), r.ID)
}

func TestRemoveFreesIDForReuse(t *testing.T) {
	s, _ := newRetorts(t)
	for _, q := range []string{"a", "b", "c"} {
		_, err := s.Add(Retort{Question: q, Answer: q})
		require.NoError(t, err)
	}
	require.NoError(t, s.Remove(2))
	r, err := s.Add(Retort{Question: "d", Answer: "d"})
	require.NoError(t, err)
	require.Equal(t, uint(2), r.ID)
	r, err = s.Add(Retort{Question: "e", Answer: "e"})
	require.NoError(t, err)
	require.Equal(t, uint(4), r.ID)
}

func TestRemoveMissing(t *testing.T) {
	s, b := newRetorts(t, Retort{ID: 1, Question: "a", Answer: "1"})
	require.ErrorIs(t, s.Remove(5), ErrNotFound)
	require.ErrorIs(t, s.RemoveKey("zzz"), ErrNotFound)
	require.ErrorIs(t, s.RemoveAll([]uint{8, 9}), ErrNotFound)
	require.ErrorIs(t, s.Remove(0), ErrInvalid)
	require.ErrorIs(t, s.RemoveKey(" "), ErrInvalid)
	require.Equal(t, 1, s.Count())
	require.Zero(t, b.saves)
}

func TestRemoveKeyAndAll(t *testing.T) {
	s, _ := newRetorts(t,
		Retort{ID: 1, Question: "a", Answer: "1"},
		Retort{ID: 2, Question: "b", Answer: "2"},
		Retort{ID: 3, Question: "c", Answer: "3"},
	)
	require.NoError(t, s.RemoveKey("A"))
	_, ok := s.Get(1)
	require.False(t, ok)

	require.NoError(t, s.RemoveAll([]uint{2, 3, 42}))
	require.True(t, s.IsEmpty())
	require.Equal(t, uint(0), s.MaxID())
}

func TestUpdate(t *testing.T) {
	s, _ := newRetorts(t, Retort{ID: 4, Question: "a", Answer: "1"})
	require.NoError(t, s.Update(4, Retort{Question: "a", Answer: "2"}))
	got, ok := s.Get(4)
	require.True(t, ok)
	require.Equal(t, "2", got.Answer)

	require.ErrorIs(t, s.Update(5, Retort{Question: "x", Answer: "y"}), ErrNotFound)
	require.ErrorIs(t, s.Update(4, Retort{Question: "x"}), ErrInvalid)
}

func TestUpdateToTakenKeyIsDuplicate(t *testing.T) {
	s, b := newRetorts(t,
		Retort{ID: 1, Question: "a", Answer: "1"},
		Retort{ID: 2, Question: "b", Answer: "2"},
	)

	require.ErrorIs(t, s.Update(2, Retort{Question: " A", Answer: "x"}), ErrDuplicate)
	got, ok := s.Get(2)
	require.True(t, ok)
	require.Equal(t, Retort{ID: 2, Question: "b", Answer: "2"}, got)
	found, _ := s.Find("a")
	require.Equal(t, uint(1), found.ID)
	require.Zero(t, b.saves)

	// keeping its own key is fine
	require.NoError(t, s.Update(2, Retort{Question: "B", Answer: "x"}))
	require.Equal(t, 1, b.saves)
}

func TestReadsSeeBackendRightAfterOpen(t *testing.T) {
	b := &memBackend[Retort]{items: []Retort{
		{ID: 2, Question: "a", Answer: "1"},
		{ID: 5, Question: "b", Answer: "2"},
	}}
	s, err := OpenRetorts(b)
	require.NoError(t, err)

	require.Equal(t, 2, s.Count())
	require.False(t, s.IsEmpty())
	require.Equal(t, uint(5), s.MaxID())
	got, ok := s.Find("B")
	require.True(t, ok)
	require.Equal(t, uint(5), got.ID)
	_, ok = s.Get(2)
	require.True(t, ok)
	require.Len(t, s.List(), 2)
	require.Len(t, s.GetAll([]uint{2, 5}), 2)
	require.Zero(t, b.saves)
}

func TestAddAllReplacesSharedKeys(t *testing.T) {
	s, b := newRetorts(t,
		Retort{ID: 1, Question: "a", Answer: "1"},
		Retort{ID: 2, Question: "b", Answer: "2"},
	)
	err := s.AddAll([]Retort{{Question: "B", Answer: "20"}, {Question: "c", Answer: "30"}})
	require.NoError(t, err)
	require.Equal(t, 1, b.saves)
	require.Equal(t, 3, s.Count())

	got, ok := s.Find("b")
	require.True(t, ok)
	require.Equal(t, "20", got.Answer)

	ids := map[uint]bool{}
	for _, r := range s.List() {
		require.False(t, ids[r.ID], "duplicate id %d", r.ID)
		ids[r.ID] = true
	}

	require.ErrorIs(t, s.AddAll(nil), ErrInvalid)
	require.ErrorIs(t, s.AddAll([]Retort{{Question: "ok", Answer: "ok"}, {Question: ""}}), ErrInvalid)
}

func TestGetAll(t *testing.T) {
	s, _ := newRetorts(t,
		Retort{ID: 1, Question: "a", Answer: "1"},
		Retort{ID: 2, Question: "b", Answer: "2"},
		Retort{ID: 3, Question: "c", Answer: "3"},
	)
	got := s.GetAll([]uint{3, 1, 9})
	require.Len(t, got, 2)
	require.Empty(t, s.GetAll(nil))
}

func TestFailedSaveRollsBack(t *testing.T) {
	s, b := newRetorts(t,
		Retort{ID: 1, Question: "a", Answer: "1"},
		Retort{ID: 2, Question: "b", Answer: "2"},
	)
	before := s.List()
	b.failErr = errors.New("disk full")

	_, err := s.Add(Retort{Question: "c", Answer: "3"})
	require.ErrorIs(t, err, ErrPersist)
	require.ErrorIs(t, s.Remove(1), ErrPersist)
	require.ErrorIs(t, s.Update(2, Retort{Question: "b", Answer: "x"}), ErrPersist)
	require.ErrorIs(t, s.AddAll([]Retort{{Question: "a", Answer: "9"}}), ErrPersist)
	require.ErrorIs(t, s.Clear(), ErrPersist)

	require.Equal(t, before, s.List())
	require.Equal(t, uint(2), s.MaxID())

	b.failErr = nil
	r, err := s.Add(Retort{Question: "c", Answer: "3"})
	require.NoError(t, err)
	require.Equal(t, uint(3), r.ID)
}

func TestUnknownAddCounts(t *testing.T) {
	b := &memBackend[Unknown]{}
	s, err := OpenUnknowns(b)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := Record(s, "What is Love")
		require.NoError(t, err)
	}
	u, err := Record(s, "who are you")
	require.NoError(t, err)
	require.Equal(t, 1, u.Count)

	got, ok := s.Find("what is love")
	require.True(t, ok)
	require.Equal(t, 3, got.Count)
	require.Equal(t, uint(1), got.ID)
	require.Equal(t, 2, s.Count())

	top := MostFrequent(s, 1)
	require.Equal(t, []Unknown{{ID: 1, Question: "what is love", Count: 3}}, top)
	require.Equal(t, "1). what is love - 3 times.", top[0].AsLine())

	_, err = Record(s, "   ")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestFileRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "retorts.json")
	f, err := storage.NewJSONFile[Retort](p)
	require.NoError(t, err)
	s, err := OpenRetorts(f)
	require.NoError(t, err)

	ops := []struct {
		add    string
		remove string
	}{
		{add: "a"}, {add: "b"}, {add: "c"}, {remove: "b"}, {add: "d"}, {remove: "a"}, {add: "e"},
	}
	for _, op := range ops {
		if op.add != "" {
			_, err := s.Add(Retort{Question: op.add, Answer: op.add + "!"})
			require.NoError(t, err)
		} else {
			require.NoError(t, s.RemoveKey(op.remove))
		}
	}

	reloaded, err := OpenRetorts(f)
	require.NoError(t, err)
	require.Equal(t, s.Count(), reloaded.Count())
	require.Equal(t, s.List(), reloaded.List())

	backups, err := os.ReadDir(f.BackupDir())
	require.NoError(t, err)
	require.Len(t, backups, len(ops))
}

func TestFileBackupFailureLeavesMemoryAndFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "retorts.json")
	f, err := storage.NewJSONFile[Retort](p)
	require.NoError(t, err)
	s, err := OpenRetorts(f)
	require.NoError(t, err)
	_, err = s.Add(Retort{Question: "key1", Answer: "val1"})
	require.NoError(t, err)

	fileBefore, err := os.ReadFile(p)
	require.NoError(t, err)
	memBefore := s.List()

	require.NoError(t, os.RemoveAll(f.BackupDir()))
	require.NoError(t, os.WriteFile(f.BackupDir(), []byte("blocked"), 0o644))

	_, err = s.Add(Retort{Question: "key2", Answer: "val2"})
	require.ErrorIs(t, err, ErrPersist)
	require.ErrorIs(t, err, storage.ErrBackup)

	fileAfter, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, fileBefore, fileAfter)
	require.Equal(t, memBefore, s.List())
}

func TestReadOnlyBackend(t *testing.T) {
	p := filepath.Join(t.TempDir(), "retorts.json")
	f, err := storage.NewJSONFile[Retort](p, storage.WithReadOnly(true))
	require.NoError(t, err)
	s, err := OpenRetorts(f)
	require.NoError(t, err)

	_, err = s.Add(Retort{Question: "hi", Answer: "hello"})
	require.NoError(t, err)
	got, ok := s.Find("hi")
	require.True(t, ok)
	require.Equal(t, "hello", got.Answer)

	reloaded, err := OpenRetorts(f)
	require.NoError(t, err)
	require.True(t, reloaded.IsEmpty())
}

func TestMalformedFileFailsOpen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "retorts.json")
	require.NoError(t, os.WriteFile(p, []byte(`[{"Id": "x"`), 0o644))
	f, err := storage.NewJSONFile[Retort](p)
	require.NoError(t, err)
	_, err = OpenRetorts(f)
	require.ErrorIs(t, err, storage.ErrMalformed)
}
