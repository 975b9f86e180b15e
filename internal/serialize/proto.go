package serialize

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Protobuf field numbers of Report. The layout is append-only; retired
// numbers must not be reused.
const (
	fieldInput          protowire.Number = 1
	fieldOutput         protowire.Number = 2
	fieldSuccess        protowire.Number = 3
	fieldCodec          protowire.Number = 4
	fieldTargetSize     protowire.Number = 5
	fieldInputSize      protowire.Number = 6
	fieldSize           protowire.Number = 7
	fieldQuality        protowire.Number = 8
	fieldWidth          protowire.Number = 9
	fieldHeight         protowire.Number = 10
	fieldOriginalWidth  protowire.Number = 11
	fieldOriginalHeight protowire.Number = 12
	fieldShrinkRounds   protowire.Number = 13
	fieldProbes         protowire.Number = 14
	fieldPassthrough    protowire.Number = 15
	fieldChecksum       protowire.Number = 16
	fieldErrorCategory  protowire.Number = 17
	fieldError          protowire.Number = 18
	fieldBest           protowire.Number = 19
)

// Field numbers of the nested ProbeInfo message.
const (
	fieldProbeQuality protowire.Number = 1
	fieldProbeSize    protowire.Number = 2
	fieldProbeWidth   protowire.Number = 3
	fieldProbeHeight  protowire.Number = 4
)

// MarshalReport encodes r in protobuf wire format. Zero-valued scalar
// fields are omitted, as proto3 does.
func MarshalReport(r *Report) []byte {
	var b []byte
	b = appendString(b, fieldInput, r.Input)
	b = appendString(b, fieldOutput, r.Output)
	b = appendBool(b, fieldSuccess, r.Success)
	b = appendString(b, fieldCodec, r.Codec)
	b = appendVarint(b, fieldTargetSize, r.TargetSize)
	b = appendVarint(b, fieldInputSize, r.InputSize)
	b = appendVarint(b, fieldSize, r.Size)
	b = appendVarint(b, fieldQuality, uint64(r.Quality))
	b = appendVarint(b, fieldWidth, uint64(r.Width))
	b = appendVarint(b, fieldHeight, uint64(r.Height))
	b = appendVarint(b, fieldOriginalWidth, uint64(r.OriginalWidth))
	b = appendVarint(b, fieldOriginalHeight, uint64(r.OriginalHeight))
	b = appendVarint(b, fieldShrinkRounds, uint64(r.ShrinkRounds))
	b = appendVarint(b, fieldProbes, uint64(r.Probes))
	b = appendBool(b, fieldPassthrough, r.Passthrough)

	if r.Checksum != 0 {
		b = protowire.AppendTag(b, fieldChecksum, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, r.Checksum)
	}

	b = appendString(b, fieldErrorCategory, r.ErrorCategory)
	b = appendString(b, fieldError, r.Error)

	if r.Best != nil {
		var nested []byte
		nested = appendVarint(nested, fieldProbeQuality, uint64(r.Best.Quality))
		nested = appendVarint(nested, fieldProbeSize, r.Best.Size)
		nested = appendVarint(nested, fieldProbeWidth, uint64(r.Best.Width))
		nested = appendVarint(nested, fieldProbeHeight, uint64(r.Best.Height))
		b = protowire.AppendTag(b, fieldBest, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	}

	return b
}

// UnmarshalReport decodes a report written by MarshalReport. Unknown fields
// are skipped.
func UnmarshalReport(data []byte) (*Report, error) {
	r := &Report{}

	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, v uint64, raw []byte) error {
		switch num {
		case fieldInput:
			r.Input = string(raw)
		case fieldOutput:
			r.Output = string(raw)
		case fieldSuccess:
			r.Success = protowire.DecodeBool(v)
		case fieldCodec:
			r.Codec = string(raw)
		case fieldTargetSize:
			r.TargetSize = v
		case fieldInputSize:
			r.InputSize = v
		case fieldSize:
			r.Size = v
		case fieldQuality:
			r.Quality = uint32(v)
		case fieldWidth:
			r.Width = uint32(v)
		case fieldHeight:
			r.Height = uint32(v)
		case fieldOriginalWidth:
			r.OriginalWidth = uint32(v)
		case fieldOriginalHeight:
			r.OriginalHeight = uint32(v)
		case fieldShrinkRounds:
			r.ShrinkRounds = uint32(v)
		case fieldProbes:
			r.Probes = uint32(v)
		case fieldPassthrough:
			r.Passthrough = protowire.DecodeBool(v)
		case fieldChecksum:
			r.Checksum = uint32(v)
		case fieldErrorCategory:
			r.ErrorCategory = string(raw)
		case fieldError:
			r.Error = string(raw)
		case fieldBest:
			best, err := unmarshalProbe(raw)
			if err != nil {
				return fmt.Errorf("best: %w", err)
			}
			r.Best = best
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

func unmarshalProbe(data []byte) (*ProbeInfo, error) {
	p := &ProbeInfo{}
	err := consumeFields(data, func(num protowire.Number, _ protowire.Type, v uint64, _ []byte) error {
		switch num {
		case fieldProbeQuality:
			p.Quality = uint32(v)
		case fieldProbeSize:
			p.Size = v
		case fieldProbeWidth:
			p.Width = uint32(v)
		case fieldProbeHeight:
			p.Height = uint32(v)
		}
		return nil
	})
	return p, err
}

// consumeFields walks every field in data. Scalars arrive in v, length
// delimited values in raw.
func consumeFields(data []byte, fn func(protowire.Number, protowire.Type, uint64, []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("invalid tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		var (
			v   uint64
			raw []byte
		)

		switch typ {
		case protowire.VarintType:
			v, n = protowire.ConsumeVarint(data)
		case protowire.Fixed32Type:
			var f uint32
			f, n = protowire.ConsumeFixed32(data)
			v = uint64(f)
		case protowire.Fixed64Type:
			v, n = protowire.ConsumeFixed64(data)
		case protowire.BytesType:
			raw, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}

		if n < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		data = data[n:]

		if err := fn(num, typ, v, raw); err != nil {
			return err
		}
	}
	return nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}
