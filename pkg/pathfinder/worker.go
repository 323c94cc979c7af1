package pathfinder

import (
	"fmt"

	"github.com/arifwn/meshpath/pkg/errs"
	"github.com/arifwn/meshpath/pkg/geo"
)

// asyncRequest is one FindPathAsync call queued to the pool.
type asyncRequest struct {
	start, end geo.Coordinate
	opts       SearchOptions
	reply      chan asyncReply
}

type asyncReply struct {
	path *Path
	err  error
}

// worker owns one independent PathFinder clone and receives at most one
// request at a time through input.
type worker struct {
	pf    *PathFinder
	input chan asyncRequest
}

// workerPool dispatches FindPath calls across N independent PathFinder
// clones, each with its own compacted graph so concurrent phantom
// injection never races between requests. A single dispatcher goroutine
// owns an idle-worker stack and a pending-request queue: a request that
// arrives with an idle worker available is handed to the most recently
// freed one (LIFO, so load concentrates and idle workers' clones stay
// cold); one that arrives with none idle waits in FIFO order for the next
// free worker.
type workerPool struct {
	submitCh     chan asyncRequest
	idleAnnounce chan *worker
	closeCh      chan struct{}
}

// newWorkerPool starts size workers, each built from its own Clone of
// base's preprocessed graph, and the dispatcher goroutine that routes
// requests between them.
func newWorkerPool(base *PathFinder, size int) (*workerPool, error) {
	pool := &workerPool{
		submitCh:     make(chan asyncRequest),
		idleAnnounce: make(chan *worker),
		closeCh:      make(chan struct{}),
	}

	workers := make([]*worker, 0, size)
	for i := 0; i < size; i++ {
		pf, err := NewFromPreprocessed(base.pg.Clone(base.logger), base.opts)
		if err != nil {
			return nil, fmt.Errorf("meshpath: starting worker %d: %w", i, err)
		}
		workers = append(workers, &worker{pf: pf, input: make(chan asyncRequest)})
	}

	for _, w := range workers {
		pool.runWorker(w)
	}
	go pool.dispatch()

	return pool, nil
}

// dispatch is the pool's single coordinator: it is the only goroutine that
// touches the idle stack and pending queue, so neither needs its own lock.
func (p *workerPool) dispatch() {
	var idle []*worker
	var pending []asyncRequest

	for {
		select {
		case <-p.closeCh:
			return
		case req := <-p.submitCh:
			if n := len(idle); n > 0 {
				w := idle[n-1]
				idle = idle[:n-1]
				w.input <- req
			} else {
				pending = append(pending, req)
			}
		case w := <-p.idleAnnounce:
			if len(pending) > 0 {
				req := pending[0]
				pending = pending[1:]
				w.input <- req
			} else {
				idle = append(idle, w)
			}
		}
	}
}

// runWorker starts w's goroutine: announce idle, wait for a request, serve
// it, announce idle again. A panic mid-request is reported to that
// request's caller as ErrWorkerTerminated and the same worker (with the
// same PathFinder clone) rejoins the idle stack rather than being lost.
func (p *workerPool) runWorker(w *worker) {
	go func() {
		for {
			select {
			case <-p.closeCh:
				return
			case p.idleAnnounce <- w:
			}

			select {
			case <-p.closeCh:
				return
			case req := <-w.input:
				p.serve(w, req)
			}
		}
	}()
}

func (p *workerPool) serve(w *worker, req asyncRequest) {
	defer func() {
		if r := recover(); r != nil {
			w.pf.logger.Error().Interface("panic", r).Msg("worker request panicked")
			req.reply <- asyncReply{err: errs.ErrWorkerTerminated}
		}
	}()
	path, err := w.pf.FindPath(req.start, req.end, req.opts)
	req.reply <- asyncReply{path: path, err: err}
}

// submit enqueues req and blocks until a worker replies, or the pool is
// closed while waiting either for dispatch or for the reply.
func (p *workerPool) submit(req asyncRequest) (*Path, error) {
	select {
	case p.submitCh <- req:
	case <-p.closeCh:
		return nil, errs.ErrPoolClosed
	}
	select {
	case reply := <-req.reply:
		return reply.path, reply.err
	case <-p.closeCh:
		return nil, errs.ErrPoolClosed
	}
}

// close is idempotent: repeated calls after the first are no-ops.
func (p *workerPool) close() {
	select {
	case <-p.closeCh:
	default:
		close(p.closeCh)
	}
}
