package note

// Args carries the inputs for one note. DriverID names the driver whose
// stats are fetched; Extra holds additional template variables that are
// passed through to rendering untouched.
//
// Resolved feature values take precedence over Extra entries with the
// same name.
type Args struct {
	DriverID int64
	Extra    map[string]any
}

// merge combines extra variables with resolved feature values. Feature
// values win on collision so a caller cannot shadow a driver's real
// stats.
func (a Args) merge(features map[string]any) map[string]any {
	vars := make(map[string]any, len(a.Extra)+len(features))
	for k, v := range a.Extra {
		vars[k] = v
	}
	for k, v := range features {
		vars[k] = v
	}
	return vars
}
