package metrics

import "github.com/prometheus/client_golang/prometheus"

// Register registers or reregisters collectors to prometheus default registry
func Register(ms ...prometheus.Collector) error {
	for _, m := range ms {
		if err := prometheus.Register(m); err != nil {
			prometheus.Unregister(m)
			if err := prometheus.Register(m); err != nil {
				return err
			}
		}
	}
	return nil
}
