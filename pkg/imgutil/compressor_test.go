package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// テスト用のダミー画像（10x10の赤い正方形）を作成するヘルパー
func createDummyImageData(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}

	if err != nil {
		t.Fatalf("failed to encode dummy image: %v", err)
	}
	return buf.Bytes()
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("正常なPNG画像をJPEGに圧縮できること", func(t *testing.T) {
		pngData := createDummyImageData(t, "png")

		got, err := CompressToJPEG(pngData, 75)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(got) == 0 {
			t.Error("expected output data, but got empty")
		}

		// 出力がJPEGとしてデコード可能か確認
		_, format, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Errorf("failed to decode output image: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
	})

	t.Run("不正なデータを与えた場合にエラーを返すこと", func(t *testing.T) {
		invalidData := []byte("this is not an image")
		_, err := CompressToJPEG(invalidData, 75)
		if err == nil {
			t.Error("expected error for invalid data, but got nil")
		}
	})

	t.Run("Quality設定によってサイズが変化すること", func(t *testing.T) {
		input := createDummyImageData(t, "png")

		highQuality, _ := CompressToJPEG(input, 100)
		lowQuality, _ := CompressToJPEG(input, 10)

		if len(lowQuality) >= len(highQuality) {
			t.Errorf("low quality size (%d) should be smaller than high quality size (%d)", len(lowQuality), len(highQuality))
		}
	})
}

// テスト用の大きめダミー画像を作成するヘルパー
func createLargeImage(t *testing.T, w, h int) image.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 0, 255})
		}
	}
	return img
}

func TestDownscale(t *testing.T) {
	t.Run("長辺がmaxDimを超える画像は縮小されること", func(t *testing.T) {
		img := createLargeImage(t, 200, 100)
		scaled := Downscale(img, 50)
		bounds := scaled.Bounds()
		if bounds.Dx() != 50 {
			t.Errorf("expected width 50, got %d", bounds.Dx())
		}
		if bounds.Dy() != 25 {
			t.Errorf("expected height 25, got %d", bounds.Dy())
		}
	})

	t.Run("縦長画像は高さ基準で縮小されること", func(t *testing.T) {
		img := createLargeImage(t, 100, 200)
		scaled := Downscale(img, 50)
		if scaled.Bounds().Dy() != 50 {
			t.Errorf("expected height 50, got %d", scaled.Bounds().Dy())
		}
	})

	t.Run("maxDim以下の画像はそのまま返ること", func(t *testing.T) {
		img := createLargeImage(t, 30, 30)
		scaled := Downscale(img, 50)
		if scaled != img {
			t.Error("expected same image instance for small input")
		}
	})
}

func TestThumbnail(t *testing.T) {
	t.Run("サムネイルはJPEGとしてデコード可能であること", func(t *testing.T) {
		pngData := createDummyImageData(t, "png")
		got, err := Thumbnail(pngData, 64, 75)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, format, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Fatalf("failed to decode thumbnail: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
	})

	t.Run("縮小不要の画像はJPEG圧縮経路と同じ結果になること", func(t *testing.T) {
		pngData := createDummyImageData(t, "png")

		fromThumbnail, err := Thumbnail(pngData, 64, 75)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fromCompress, err := CompressToJPEG(pngData, 75)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(fromThumbnail, fromCompress) {
			t.Error("small image thumbnail should be produced by the compress path")
		}
	})

	t.Run("不正なデータではエラーを返すこと", func(t *testing.T) {
		if _, err := Thumbnail([]byte("not an image"), 64, 75); err == nil {
			t.Error("expected error for invalid data")
		}
	})
}
