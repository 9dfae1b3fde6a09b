package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu   sync.Mutex
	got  []string
	done chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestDebouncer_CollapsesBurstToLastValue(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	d := NewDebouncer(30*time.Millisecond, rec.record)
	defer d.Stop()

	for _, v := range []string{"p", "ph", "pho", "phone"} {
		d.Trigger(v)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("debounced value never delivered")
	}
	// give a stray timer a chance to misfire
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, []string{"phone"}, rec.values())
	assert.False(t, d.Pending())
}

func TestDebouncer_FlushDeliversImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	d := NewDebouncer(time.Hour, rec.record)
	defer d.Stop()

	assert.False(t, d.Flush(), "nothing pending yet")

	d.Trigger("laptop")
	require.True(t, d.Pending())
	require.True(t, d.Flush())

	assert.Equal(t, []string{"laptop"}, rec.values())
	assert.False(t, d.Pending())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	d := NewDebouncer(10*time.Millisecond, rec.record)
	d.Trigger("x")
	d.Stop()
	d.Trigger("y")

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, rec.values())
	assert.False(t, d.Flush())
}

func TestDebouncer_SeparateQuietWindowsDeliverEach(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	d := NewDebouncer(10*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("a")
	<-rec.done
	d.Trigger("b")
	<-rec.done

	assert.Equal(t, []string{"a", "b"}, rec.values())
}

func TestDebouncer_FlushWaitsForRunningDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var got []string
	d := NewDebouncer(time.Millisecond, func(v string) {
		if v == "old" {
			close(entered)
			<-release
		}
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	defer d.Stop()

	d.Trigger("old")
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}

	flushed := make(chan bool)
	go func() {
		d.Trigger("new")
		flushed <- d.Flush()
	}()

	select {
	case <-flushed:
		t.Fatal("Flush delivered while an earlier delivery was still running")
	case <-time.After(30 * time.Millisecond):
	}
	close(release)
	// either Flush or the re-armed timer delivers "new", never both
	<-flushed

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"old", "new"}, got)
}
