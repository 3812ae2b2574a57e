package dynamo

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// EncodingZstd marks a document stored compressed.
const EncodingZstd = "zstd"

// DefaultCompressThreshold is the document size above which data is compressed.
const DefaultCompressThreshold = 8 * 1024

type codec struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

func newCodec(threshold int) (*codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &codec{encoder: encoder, decoder: decoder, threshold: threshold}, nil
}

// pack stores doc inline or compressed depending on its size.
func (c *codec) pack(doc []byte, item *recordItem) {
	if c.threshold > 0 && len(doc) > c.threshold {
		item.Packed = c.encoder.EncodeAll(doc, nil)
		item.Encoding = EncodingZstd
		item.Data = ""
		return
	}
	item.Data = string(doc)
	item.Packed = nil
	item.Encoding = ""
}

func (c *codec) unpack(item recordItem) ([]byte, error) {
	switch item.Encoding {
	case "":
		return []byte(item.Data), nil
	case EncodingZstd:
		doc, err := c.decoder.DecodeAll(item.Packed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress %s/%s: %w", item.Kind, item.ID, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q on %s/%s", item.Encoding, item.Kind, item.ID)
	}
}
