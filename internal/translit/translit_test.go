package translit

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Пример.jpg", "Primer.jpg"},
		{"Жучка", "Zhuchka"},
		{"Щука.png", "Shchuka.png"},
		{"съёмка", "syomka"},
		{"объезд", "obyezd"},
		{"IMG_0001.jpg", "IMG_0001.jpg"},
		{"фото-2023 отпуск.jpg", "foto-2023 otpusk.jpg"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.input); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNeedsNormalization(t *testing.T) {
	if !NeedsNormalization("Пример.jpg") {
		t.Fatal("expected Cyrillic name to need normalization")
	}
	if NeedsNormalization("IMG_0001.jpg") {
		t.Fatal("ASCII name must not need normalization")
	}
	// Non-Cyrillic non-ASCII is outside the covered range.
	if NeedsNormalization("café.jpg") {
		t.Fatal("Latin accents are outside the covered range")
	}
}

func TestTransformerShortDst(t *testing.T) {
	var tr Transformer
	dst := make([]byte, 1)
	_, _, err := tr.Transform(dst, []byte("Щ"), true)
	if err == nil {
		t.Fatal("expected ErrShortDst for undersized buffer")
	}
}
