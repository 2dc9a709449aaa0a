package device

import (
	"time"

	"github.com/pilebones/go-udev/netlink"
)

// blockEventMatcher implements netlink.Matcher, filtering the udev netlink
// stream down to "block" subsystem events — the non-atomicity guard
// described in spec §4.A: discovery snapshots sysfs, but a USB stick
// yanked mid-scan must not silently produce a half-read Device.
type blockEventMatcher struct{}

func (blockEventMatcher) Evaluate(e netlink.UEvent) bool {
	return e.Env["SUBSYSTEM"] == "block"
}

// guard watches for block device add/remove events for a bounded window
// and reports whether any fired, so the caller can flag the scan as
// non-atomic rather than return a silently stale Device list.
type guard struct {
	conn    netlink.UEventConn
	queue   chan netlink.UEvent
	errs    chan error
	quit    chan struct{}
	changed bool
}

// newGuard connects to the udev netlink socket. Callers that cannot open
// it (no CAP_NET_ADMIN, no udev on the host) should treat discovery as
// best-effort rather than fail outright; the caller decides that policy.
func newGuard() (*guard, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, err
	}
	g := &guard{
		conn:  *conn,
		queue: make(chan netlink.UEvent),
		errs:  make(chan error),
	}
	g.quit = conn.Monitor(g.queue, g.errs, blockEventMatcher{})
	go g.drain()
	return g, nil
}

func (g *guard) drain() {
	for {
		select {
		case <-g.queue:
			g.changed = true
		case <-g.errs:
			return
		case <-g.quit:
			return
		}
	}
}

// Close stops the monitor and reports whether a block event fired while it
// was open.
func (g *guard) Close() bool {
	close(g.quit)
	g.conn.Close()
	// Give the drain goroutine a moment to flush anything already queued.
	time.Sleep(5 * time.Millisecond)
	return g.changed
}
