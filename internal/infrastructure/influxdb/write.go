package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteVital writes a single vital sign sample for a unit.
//
// This is the primary method for recording vitals history. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - unitID: Unique identifier for the wearable unit (e.g., "FF1")
//   - vital: The vital name (e.g., "hr", "o2pct", "co2ppm")
//   - value: The numeric value to record
//
// Example:
//
//	client.WriteVital("FF1", "hr", 128)
//	client.WriteVital("FF1", "o2pct", 20.4)
func (c *Client) WriteVital(unitID string, vital string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"unit_vitals",
		map[string]string{
			"unit_id": unitID,
			"vital":   vital,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePosition writes a GPS fix for a unit.
//
// Positions get their own measurement so location queries do not scan
// through vitals samples.
func (c *Client) WritePosition(unitID string, lat, lng float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"unit_position",
		map[string]string{
			"unit_id": unitID,
		},
		map[string]interface{}{
			"lat": lat,
			"lng": lng,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., samples buffered on the
// unit during a connectivity gap).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
