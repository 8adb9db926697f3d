package mib

// Reset reinitialises the uptime clock, restores every sensor's sampling
// rate and the beacon period to their configured defaults, and returns the
// device to normal operational status. Rows themselves are never
// destroyed or recreated.
//
// The reference's reset handler matched sensor iids with a plain substring
// test ("2.3.1" in iid) against a bare index key, so it only ever touched
// rows 1 and 2 by coincidence of string overlap. That bug is not
// reproduced: every configured sensor's rate is restored.
func (m *MIB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bootTime = timeNow()
	m.beaconPeriodSecs = m.defaultBeaconSecs
	m.operStatus = StatusNormal
	for _, row := range m.sensors {
		row.RateTenthsHz = row.DefaultTenths
	}
}

// SetStatus transitions the device operational status field (1.8). Used by
// the transport layer to enter the error state on unrecoverable codec or
// transport failure.
func (m *MIB) SetStatus(status int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operStatus = status
}
