package worklog

import (
	"time"

	"github.com/balkashynov/worklog/internal/models"
)

// SetTickerCallback registers the function the display ticker pushes a
// fresh TimeCalculation to once per second while the day is running
func (m *Manager) SetTickerCallback(cb func(models.TimeCalculation)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callback = cb
}

// startTicker launches the read-only display refresher. It never
// mutates session, break or action records. Callers hold the lock.
func (m *Manager) startTicker() {
	if m.tickerStop != nil {
		return
	}
	stop := make(chan struct{})
	m.tickerStop = stop
	go m.tickerLoop(stop)
	m.logger.Debug("ticker started")
}

// stopTicker signals the refresher to exit. It does not wait: the loop
// observes the closed channel on its next tick. Callers hold the lock.
func (m *Manager) stopTicker() {
	if m.tickerStop == nil {
		return
	}
	close(m.tickerStop)
	m.tickerStop = nil
	m.logger.Debug("ticker stopped")
}

func (m *Manager) tickerLoop(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.mu.RLock()
			cb := m.callback
			working := m.state == models.StateWorking
			m.mu.RUnlock()

			if cb == nil || !working {
				continue
			}

			calc, err := m.CurrentCalculations()
			if err != nil {
				m.logger.Error("ticker refresh failed", "error", err)
				continue
			}
			cb(calc)
		}
	}
}
