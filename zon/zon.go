package zon

// Encode renders a value as ZON text with default options. Output uses \n
// separators with no trailing newline.
func Encode(v *Value) (string, error) {
	return NewEncoder().Encode(v)
}

// EncodeWithOptions renders a value as ZON text.
func EncodeWithOptions(v *Value, opts EncodeOptions) (string, error) {
	return NewEncoderWithOptions(opts).Encode(v)
}

// Decode parses ZON text with strict checking and default limits.
func Decode(input string) (*Value, error) {
	return NewDecoder().Decode(input)
}

// DecodeWithOptions parses ZON text.
func DecodeWithOptions(input string, opts DecodeOptions) (*Value, error) {
	return NewDecoderWithOptions(opts).Decode(input)
}

// EncodeJSON converts JSON text straight to ZON text.
func EncodeJSON(data []byte) (string, error) {
	v, err := FromJSON(data)
	if err != nil {
		return "", err
	}
	return Encode(v)
}

// DecodeToJSON converts ZON text straight to JSON text.
func DecodeToJSON(input string) ([]byte, error) {
	v, err := Decode(input)
	if err != nil {
		return nil, err
	}
	return ToJSON(v)
}
