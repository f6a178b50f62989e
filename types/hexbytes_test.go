package types

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestHexBytesMarshalUnmarshalJSON(t *testing.T) {
	c := qt.New(t)
	hb := HexBytes{0xde, 0xad, 0xbe, 0xef}

	data, err := json.Marshal(hb)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `"0xdeadbeef"`)

	var unmarshaled HexBytes
	c.Assert(json.Unmarshal(data, &unmarshaled), qt.IsNil)
	c.Assert(unmarshaled, qt.DeepEquals, hb)

	// Unprefixed hex is accepted too.
	c.Assert(json.Unmarshal([]byte(`"deadbeef"`), &unmarshaled), qt.IsNil)
	c.Assert(unmarshaled, qt.DeepEquals, hb)

	c.Assert(json.Unmarshal([]byte(`"zz"`), &unmarshaled), qt.IsNotNil)
	c.Assert(json.Unmarshal([]byte(`42`), &unmarshaled), qt.IsNotNil)
}

func TestHexBytesSetString(t *testing.T) {
	c := qt.New(t)
	var hb HexBytes
	c.Assert(hb.SetString("0x0102"), qt.IsNil)
	c.Assert(hb, qt.DeepEquals, HexBytes{0x01, 0x02})
	c.Assert(hb.String(), qt.Equals, "0x0102")
	c.Assert(hb.SetString("nothex"), qt.IsNotNil)
}
