// Package tcfg parses the text configuration format used by libtcod-era
// games: nested named blocks with key = value assignments, primitive
// scalars, arrays, and repeated typed instances of the same block.
//
//	widget "lamp" {
//	  weight = 3
//	  glow            // booleans are bare identifiers; absence means false
//	  tags = ["light", "portable"]
//	  bulb {
//	    wattage = 40
//	  }
//	}
//
// Comments run from // to the end of the line, or between /* and */ with
// nesting.
//
// Like the builtin json package, tcfg converts between config documents and
// Go values. The document above parses into:
//
//	type Bulb struct {
//	  Name    string `tcfg:"name"`
//	  Wattage int    `tcfg:"wattage"`
//	}
//
//	type Widget struct {
//	  Name   string   `tcfg:"name"`
//	  Weight int      `tcfg:"weight"`
//	  Glow   bool     `tcfg:"glow"`
//	  Tags   []string `tcfg:"tags"`
//	  Bulb   Bulb     `tcfg:"bulb"`
//	}
//
//	widget := Widget{}
//	tcfg.Unmarshal(data, &widget)
//
// Every block type must declare the reserved "name" field, which receives
// the optional quoted instance name after the type tag ("lamp" above), or
// the empty string when absent. Repeated blocks of one type decode into a
// slice; different block types cannot interleave within one run.
//
// The format is strictly typed from the Go side: fields and blocks not
// declared by the target type are errors, not captured. The historical
// color and dice scalar types are recognized by the tokenizer but cannot
// be decoded.
package tcfg
