// Package jobs runs background maintenance for the Folio API, independent of
// HTTP request handling.
//
// MediaSweeper periodically reconciles the local upload directory against
// media records and removes files nothing references:
//
//	sweeper := jobs.NewMediaSweeper(jobs.MediaSweeperConfig{
//	    Store:    localStore,
//	    Media:    mediaRepo,
//	    Interval: 24 * time.Hour,
//	})
//	sweeper.Start()
//	defer sweeper.Stop()
//
// Jobs log errors and keep running; a failed pass is retried on the next tick.
package jobs
