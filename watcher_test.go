package main

import (
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDebounce_MergesBurst(t *testing.T) {
	fired := make(chan struct{}, 8)
	handler := debounce(time.Millisecond*50, func() { fired <- struct{}{} })
	ev := fsnotify.Event{Name: "cookies.yml", Op: fsnotify.Write}
	for i := 0; i < 5; i++ {
		handler(ev)
	}
	select {
	case <-fired:
	case <-time.After(time.Second * 2):
		t.Fatal("debounced callback did not fire")
	}
	select {
	case <-fired:
		t.Fatal("burst produced more than one callback")
	case <-time.After(time.Millisecond * 200):
	}
}

func TestDebounce_IgnoresChmod(t *testing.T) {
	fired := make(chan struct{}, 1)
	handler := debounce(time.Millisecond*10, func() { fired <- struct{}{} })
	handler(fsnotify.Event{Name: "cookies.yml", Op: fsnotify.Chmod})
	select {
	case <-fired:
		t.Fatal("chmod event should not trigger the callback")
	case <-time.After(time.Millisecond * 100):
	}
}
