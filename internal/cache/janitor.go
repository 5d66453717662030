package cache

import "time"

// Sweeper is anything with a Sweep method. The janitor calls it on a timer.
type Sweeper interface {
	Sweep() int
}

// Janitor periodically sweeps registered caches until Stop is called.
type Janitor struct {
	sweepers []Sweeper
	stop     chan struct{}
	done     chan struct{}
}

func NewJanitor() *Janitor {
	return &Janitor{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (j *Janitor) Register(s Sweeper) {
	j.sweepers = append(j.sweepers, s)
}

func (j *Janitor) Start(interval time.Duration) {
	go func() {
		defer close(j.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, s := range j.sweepers {
					s.Sweep()
				}
			case <-j.stop:
				return
			}
		}
	}()
}

func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
