//go:build unix

package ipc

import (
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebench/internal/domain"
)

func uniqueName(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func TestSegmentLifecycle(t *testing.T) {
	dir := t.TempDir()
	name := uniqueName("seg")

	created, err := CreateSegment(dir, name, 64)
	require.NoError(t, err)
	created.Bytes()[10] = 42

	attached, err := AttachSegment(dir, name, 64, false)
	require.NoError(t, err)
	assert.Equal(t, byte(42), attached.Bytes()[10], "mappings of one name share memory")

	attached.Bytes()[11] = 7
	assert.Equal(t, byte(7), created.Bytes()[11])

	require.NoError(t, attached.Detach())
	require.NoError(t, created.Detach())
	require.NoError(t, created.Detach(), "second detach is a no-op")

	require.NoError(t, UnlinkSegment(dir, name))
	_, err = os.Stat(SegmentPath(dir, name))
	assert.True(t, os.IsNotExist(err))

	_, err = AttachSegment(dir, name, 64, false)
	assert.Error(t, err)
}

func TestCreateSegmentResetsLeakedName(t *testing.T) {
	dir := t.TempDir()
	name := uniqueName("seg")
	require.NoError(t, os.WriteFile(SegmentPath(dir, name), []byte{1, 2, 3, 4, 5, 6, 7, 8}, 0o666))

	seg, err := CreateSegment(dir, name, 8)
	require.NoError(t, err)
	defer UnlinkSegment(dir, name)
	defer seg.Detach()

	assert.Equal(t, make([]byte, 8), seg.Bytes())
}

func TestAttachSegmentSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	name := uniqueName("seg")
	seg, err := CreateSegment(dir, name, 16)
	require.NoError(t, err)
	defer UnlinkSegment(dir, name)
	defer seg.Detach()

	_, err = AttachSegment(dir, name, 24, true)
	assert.Error(t, err)
}

func TestDatasetIsSharedReadOnly(t *testing.T) {
	dir := t.TempDir()
	name := uniqueName("data")
	data := domain.Dataset{5, 10, 15, 20, 25, 30, 35, 40}

	seg, err := PublishDataset(dir, name, data)
	require.NoError(t, err)
	defer UnlinkSegment(dir, name)
	defer seg.Detach()

	view, ro, err := AttachDataset(dir, name, len(data))
	require.NoError(t, err)
	defer ro.Detach()
	assert.Equal(t, data, view)

	empty, err := PublishDataset(dir, name+"_empty", nil)
	require.NoError(t, err)
	defer UnlinkSegment(dir, name+"_empty")
	assert.Empty(t, DatasetView(empty, 0))
}

func TestSemaphoreExcludesSeparateHandles(t *testing.T) {
	dir := t.TempDir()
	name := uniqueName("sem")
	owner, err := CreateSemaphore(dir, name)
	require.NoError(t, err)
	defer UnlinkSemaphore(dir, name)
	defer owner.Close()

	require.NoError(t, owner.Acquire())

	other, err := OpenSemaphore(dir, name)
	require.NoError(t, err)
	defer other.Close()

	acquired := make(chan struct{})
	go func() {
		if other.Acquire() == nil {
			other.Release()
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second handle acquired a held semaphore")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, owner.Release())
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("second handle never acquired the released semaphore")
	}
}

func TestOpenSemaphoreMissing(t *testing.T) {
	_, err := OpenSemaphore(t.TempDir(), uniqueName("sem"))
	assert.Error(t, err)
}

func TestSharedCountersNoLostUpdates(t *testing.T) {
	const (
		trials  = 5
		workers = 16
		adds    = 200
	)

	for trial := 0; trial < trials; trial++ {
		dir := t.TempDir()
		semName, segName := uniqueName("sem"), uniqueName("sum")

		sem, err := CreateSemaphore(dir, semName)
		require.NoError(t, err)
		seg, err := CreateSegment(dir, segName, SummarySize)
		require.NoError(t, err)
		parent := NewSharedCounters(sem, seg)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// У каждого воркера собственные дескрипторы, как у отдельного процесса
				s, err := OpenSemaphore(dir, semName)
				if !assert.NoError(t, err) {
					return
				}
				m, err := AttachSegment(dir, segName, SummarySize, false)
				if !assert.NoError(t, err) {
					s.Close()
					return
				}
				child := NewSharedCounters(s, m)
				defer child.Close()
				for i := 0; i < adds; i++ {
					assert.NoError(t, child.Add(domain.Counts{Low: 1, Mid: 2, High: 3}))
				}
			}()
		}
		wg.Wait()

		got, err := parent.Snapshot()
		require.NoError(t, err)
		n := int64(workers * adds)
		assert.Equal(t, domain.Counts{Low: n, Mid: 2 * n, High: 3 * n}, got, "trial %d", trial)

		require.NoError(t, parent.Close())
		_, err = parent.Snapshot()
		assert.ErrorIs(t, err, domain.ErrChannelClosed)
		assert.ErrorIs(t, parent.Add(domain.Counts{Low: 1}), domain.ErrChannelClosed)

		require.NoError(t, UnlinkSegment(dir, segName))
		require.NoError(t, UnlinkSemaphore(dir, semName))
	}
}

func TestResultSlots(t *testing.T) {
	dir := t.TempDir()
	name := uniqueName("slots")
	seg, err := CreateSegment(dir, name, SlotsSize(3))
	require.NoError(t, err)
	defer UnlinkSegment(dir, name)

	slots := NewResultSlots(seg)
	defer slots.Detach()

	assert.Equal(t, 0, slots.Turn())
	slots.Advance()
	slots.Advance()
	assert.Equal(t, 2, slots.Turn())

	want := domain.WorkerResult{Group: 1, Average: 23.25, Counts: domain.Counts{Low: 1, Mid: 2, High: 3}, Elapsed: 1234 * time.Microsecond}
	slots.Put(want)
	slots.Put(domain.WorkerResult{Group: 2, Average: math.NaN(), Degenerate: true})

	assert.Equal(t, want, slots.Get(1))
	empty := slots.Get(2)
	assert.True(t, empty.Degenerate)
	assert.True(t, math.IsNaN(empty.Average))
	assert.Equal(t, domain.WorkerResult{Group: 0}, slots.Get(0))
}

func TestSemaphoreCloseWaitsForRelease(t *testing.T) {
	dir := t.TempDir()
	name := uniqueName("sem")
	sem, err := CreateSemaphore(dir, name)
	require.NoError(t, err)
	defer UnlinkSemaphore(dir, name)

	require.NoError(t, sem.Acquire())

	closed := make(chan error, 1)
	go func() { closed <- sem.Close() }()

	select {
	case <-closed:
		t.Fatal("Close returned while the handle was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, sem.Release())
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Close never returned after Release")
	}
}
