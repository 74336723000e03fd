package core

// Info describes one currently-plugged device as of the most recent
// enumeration pass: its display name, its DeviceId, and its supported
// resolutions sorted (width desc, then height desc) with adjacent duplicates
// removed. Devices reporting zero supported resolutions never appear here
// (see the enumerator, §4.5).
type Info struct {
	Name        string
	Id          DeviceId
	Resolutions []Resolution
}

// LargestResolution returns the first entry of Resolutions (the largest,
// since the list is sorted descending), or the zero Resolution and false if
// Resolutions is empty.
func (i Info) LargestResolution() (Resolution, bool) {
	if len(i.Resolutions) == 0 {
		return Resolution{}, false
	}
	return i.Resolutions[0], true
}
