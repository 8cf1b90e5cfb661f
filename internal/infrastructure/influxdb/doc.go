// Package influxdb provides the optional vitals history sink.
//
// It wraps the official influxdb-client-go v2 library for recording
// time-series copies of unit vitals and GPS fixes as they flow through
// ingestion. The in-memory unit store only holds the latest reading per
// unit; this sink is what makes historical queries possible.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    // errors.Is(err, influxdb.ErrDisabled) when turned off in config
//	}
//	defer client.Close()
//
//	client.WriteVital("FF1", "hr", 128)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via the
// SetOnError callback. Connection and health check errors are returned
// directly.
package influxdb
