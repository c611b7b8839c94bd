package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode は image.Decode の薄いラッパーです。
// デコーダ登録（blank import）をこのパッケージに集約するために用意しています。
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// Thumbnail は長辺が maxDim 以下になるよう縮小した JPEG サムネイルを生成します。
// 元画像が maxDim 以下の場合は縮小せず JPEG への再圧縮のみ行います。
func Thumbnail(data []byte, maxDim, quality int) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	scaled := Downscale(img, maxDim)
	if scaled == img {
		return CompressToJPEG(data, quality)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Downscale は長辺が maxDim を超える画像を最近傍サンプリングで縮小します。
// maxDim 以下の画像はそのまま返します。
func Downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		srcY := bounds.Min.Y + y*h/dh
		for x := 0; x < dw; x++ {
			srcX := bounds.Min.X + x*w/dw
			dst.Set(x, y, img.At(srcX, srcY))
		}
	}
	return dst
}
