package local
import (
	"fmt"
	"sync"
)

/*
 * a bounded worker pool for embed/extract jobs. the bit walking loops
 * are cpu bound and can run for a while on big carriers, so they never
 * run on the request goroutine: Submit hands the job to a fixed set of
 * workers and rejects outright once the queue is full.
 */

type Pool struct {
	jobs	chan func()
	wg	sync.WaitGroup
	mtx	sync.Mutex
	closed	bool
}

func NewPool( workers, queueSize uint ) *Pool {
	if workers == 0 {
		workers = 1
	}
	p := &Pool{
		jobs: make( chan func(), queueSize ),
	}
	for i := uint(0); i < workers; i++ {
		p.wg.Add( 1 )
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Submit queues a job or rejects immediately, it never blocks the caller.
func(p *Pool) Submit( job func() ) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.closed {
		return fmt.Errorf("The worker pool is shut down.")
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return fmt.Errorf("All workers are busy, try again later.")
	}
}

// Run queues a job and waits for it to finish. a saturated pool still
// rejects instead of queueing up behind other requests.
func(p *Pool) Run( job func() ) error {
	done := make( chan struct{} )
	err := p.Submit( func() {
		job()
		close( done )
	})
	if err != nil {
		return err
	}
	<-done
	return nil
}

func(p *Pool) Close() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close( p.jobs )
	p.wg.Wait()
}
