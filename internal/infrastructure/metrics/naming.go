package metrics

import "strings"

// MetricPrefix turns a service name into a valid metric name prefix.
// "hello-world" becomes "hello_world".
func MetricPrefix(serviceName string) string {
	if serviceName == "" {
		return "service"
	}

	var b strings.Builder
	for i, r := range serviceName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}
