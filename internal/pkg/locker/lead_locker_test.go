package locker

import (
	"sync"
	"testing"
)

func TestDoSerializesSameLead(t *testing.T) {
	l := NewLeadLocker()
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Do("lead-1", func() {
				counter++
			})
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestEntriesDrainAfterUse(t *testing.T) {
	l := NewLeadLocker()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Do("lead-1", func() {})
			l.Do("lead-2", func() {})
		}(i)
	}
	wg.Wait()

	if got := l.Size(); got != 0 {
		t.Errorf("locker retained %d entries after drain", got)
	}
}

func TestDifferentLeadsDoNotBlock(t *testing.T) {
	l := NewLeadLocker()
	release := make(chan struct{})
	entered := make(chan struct{})

	go l.Do("lead-1", func() {
		close(entered)
		<-release
	})
	<-entered

	done := make(chan struct{})
	go l.Do("lead-2", func() { close(done) })
	<-done // must complete while lead-1 is still held
	close(release)
}
