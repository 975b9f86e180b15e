package codec

import (
	"fmt"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
	"github.com/iamNilotpal/sizefit/internal/core/ports"
	"go.uber.org/multierr"
)

// Registry resolves which codec decodes an input and which one encodes the
// result. Decoders are chosen by sniffing magic bytes; the JPEG codec is the
// fallback because it decodes every format the image package knows.
type Registry struct {
	codecs   []ports.RasterCodec
	fallback ports.RasterCodec
	output   ports.RasterCodec // nil means encode with the decoding codec.
	closers  []interface{ Close() error }
}

// NewRegistry builds the JPEG and QRZ codecs from opts.
func NewRegistry(opts *domain.CodecOptions) (*Registry, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if err := Validate(opts); err != nil {
		return nil, err
	}

	jpeg := NewJPEGCodec(opts)
	qrz, err := NewQRZCodec(opts)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		codecs:   []ports.RasterCodec{qrz, jpeg},
		fallback: jpeg,
		closers:  []interface{ Close() error }{qrz},
	}

	if opts.OutputFormat != OutputAuto {
		out, ok := r.Lookup(string(opts.OutputFormat))
		if !ok {
			r.Close()
			return nil, fmt.Errorf("no codec registered for output format %q", opts.OutputFormat)
		}
		r.output = out
	}

	return r, nil
}

// NewSingleRegistry wraps one codec that both decodes every input and
// encodes every output.
func NewSingleRegistry(codec ports.RasterCodec) *Registry {
	return &Registry{
		codecs:   []ports.RasterCodec{codec},
		fallback: codec,
		output:   codec,
	}
}

// Select returns the codec that should decode data.
func (r *Registry) Select(data []byte) ports.RasterCodec {
	for _, c := range r.codecs {
		if c.Match(data) {
			return c
		}
	}
	return r.fallback
}

// Output returns the codec results are encoded with, given the codec that
// decoded the input.
func (r *Registry) Output(decoder ports.RasterCodec) ports.RasterCodec {
	if r.output != nil {
		return r.output
	}
	return decoder
}

// Lookup finds a codec by name.
func (r *Registry) Lookup(name string) (ports.RasterCodec, bool) {
	for _, c := range r.codecs {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Close releases codec resources.
func (r *Registry) Close() error {
	var err error
	for _, c := range r.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
