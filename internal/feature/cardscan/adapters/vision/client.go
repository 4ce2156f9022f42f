// Package vision はGoogle Cloud Vision APIを使用した文字起こしクライアントを提供します。
package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"

	"meishi_backend/internal/feature/cardscan/usecase"
)

// annotator はVision APIクライアントのうち本パッケージが使うメソッドです。
type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// VisionTextExtractor はGoogle Cloud VisionのDOCUMENT_TEXT_DETECTIONで名刺画像を文字起こしします。
type VisionTextExtractor struct {
	client annotator
}

// VisionTextExtractorがTextExtractorを実装していることをコンパイル時に検証します。
var _ usecase.TextExtractor = (*VisionTextExtractor)(nil)

// NewVisionTextExtractor はADCを使用してVisionTextExtractorの新しいインスタンスを生成します。
func NewVisionTextExtractor(ctx context.Context) (*VisionTextExtractor, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionTextExtractor{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionTextExtractor) Close() error {
	return v.client.Close()
}

// ExtractText はbase64画像をバイト列に戻してVision APIに送り、全文テキストを返します。
func (v *VisionTextExtractor) ExtractText(ctx context.Context, imageB64 string) (string, error) {
	imageData, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return "", fmt.Errorf("decode image payload: %w", err)
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{LanguageHints: []string{"ja", "en"}},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return "", nil
	}

	if resp.Responses[0].Error != nil {
		return "", fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	if full := resp.Responses[0].FullTextAnnotation; full != nil {
		return full.Text, nil
	}
	// 文書としての認識結果が無い場合は、先頭のテキスト注釈（画像全体）を使います。
	if anns := resp.Responses[0].TextAnnotations; len(anns) > 0 {
		return anns[0].Description, nil
	}
	return "", nil
}
