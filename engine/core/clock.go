package core

import "time"

// Clock accumulates named stage durations for one pipeline run.
type Clock struct {
	mark   time.Time
	stages []Stage
}

type Stage struct {
	Name    string
	Elapsed time.Duration
}

func NewClock() *Clock {
	return &Clock{mark: time.Now()}
}

// Mark records the time spent since the previous mark under the given name
// and returns it.
func (c *Clock) Mark(name string) time.Duration {
	now := time.Now()
	d := now.Sub(c.mark)
	c.mark = now
	c.stages = append(c.stages, Stage{Name: name, Elapsed: d})
	return d
}

// Total returns the sum of all recorded stages.
func (c *Clock) Total() time.Duration {
	var total time.Duration
	for _, s := range c.stages {
		total += s.Elapsed
	}
	return total
}

// Stages returns the recorded stages in order.
func (c *Clock) Stages() []Stage {
	return c.stages
}
