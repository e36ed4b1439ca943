package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Order is one order as the server returns it. Its content is opaque to the
// client apart from the order_id used to cancel it.
type Order struct {
	Raw json.RawMessage
	id  string
}

func (o Order) ID() string {
	return o.id
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var head struct {
		OrderID json.RawMessage `json:"order_id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	id, err := parseID(head.OrderID)
	if err != nil {
		return err
	}

	o.id = id
	o.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	if o.Raw == nil {
		return []byte("null"), nil
	}
	return o.Raw, nil
}

// Field decodes a single top level field of the order into out.
func (o Order) Field(name string, out any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(o.Raw, &fields); err != nil {
		return err
	}
	raw, ok := fields[name]
	if !ok {
		return fmt.Errorf("order has no field %q", name)
	}
	return json.Unmarshal(raw, out)
}

// parseID accepts order ids sent as strings or numbers.
func parseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid order_id %s", raw)
	}
	return n.String(), nil
}
