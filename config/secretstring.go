package config

// SecretStringValue replaces secret values in any output.
const SecretStringValue = "<secret>"

// SecretString holds credentials (minification service token) which must
// never be visible in logs, dumped configuration or debug report.
type SecretString string

// String implements fmt.Stringer so secrets are masked in logs.
func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

// MarshalJSON masks the value.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte("\"" + SecretStringValue + "\""), nil
}

// MarshalYAML masks the value.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
