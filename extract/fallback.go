package extract

import (
	"context"
	"fmt"
	"log"
)

// FallbackTextExtractor tries the primary extractor and, on any failure,
// runs the fallback. Used to prefer Adobe Extract (free of AI tokens) with
// Claude vision as the safety net.
type FallbackTextExtractor struct {
	Primary  TextExtractor
	Fallback TextExtractor
}

func (f *FallbackTextExtractor) ExtractText(ctx context.Context, pdf []byte) (*TextResult, error) {
	result, err := f.Primary.ExtractText(ctx, pdf)
	if err == nil {
		return result, nil
	}
	if f.Fallback == nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, err
	}

	log.Printf("[Extract] primary extractor failed, using fallback: %v", err)

	result, fbErr := f.Fallback.ExtractText(ctx, pdf)
	if fbErr != nil {
		return nil, fmt.Errorf("primary: %v; fallback: %w", err, fbErr)
	}
	return result, nil
}
