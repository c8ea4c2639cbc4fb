package services

import (
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StartExpirySweeper runs SweepExpiredCredentials on a fixed interval until
// the returned stop function is called.
func StartExpirySweeper(db *gorm.DB, interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				n, err := SweepExpiredCredentials(db, time.Now())
				if err != nil {
					logrus.WithError(err).Error("expiry sweep failed")
					continue
				}
				if n > 0 {
					logrus.WithField("expired", n).Info("expiry sweep flipped credentials")
				}
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}
