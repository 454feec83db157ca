package relay

// sweep runs one liveness check. Connections which have not answered since
// the previous sweep are terminated, every other connection is probed again.
// An unresponsive connection is therefore dropped between one and two
// intervals after its last answer.
func (r *Relay) sweep() {
	// cleanup deletes the visited entry from the map being ranged over.
	for c, rec := range r.registry.records {
		if !rec.alive {
			rec.logger.Info("terminating unresponsive connection")
			c.Terminate()
			r.cleanup(c)

			continue
		}

		rec.alive = false
		if err := c.Ping(); err != nil {
			rec.logger.WithError(err).Debug("error sending ping")
		}
	}
}
