package testutil

// CharsetSample is text in a legacy charset together with its UTF-8 form.
type CharsetSample struct {
	Name    string
	Charset string // MIME charset label
	Raw     []byte
	UTF8    string
}

// CharsetSamples returns a fresh slice of legacy-charset samples, safe for
// mutation by individual tests.
func CharsetSamples() []CharsetSample {
	return []CharsetSample{
		{"latin1 acute", "iso-8859-1", []byte("Caf\xe9 closed"), "Café closed"},
		{"latin1 umlaut", "iso-8859-1", []byte("M\xfcnchen office"), "München office"},
		{"windows-1252 smart quote", "windows-1252", []byte("Rand\x92s invoice"), "Rand’s invoice"},
		{"windows-1252 euro", "windows-1252", []byte("Price: \x80100"), "Price: €100"},
		{"windows-1252 double quotes", "windows-1252", []byte("\x93Urgent\x94"), "“Urgent”"},
		{"shift_jis", "Shift_JIS", []byte{0x82, 0xb1, 0x82, 0xf1, 0x82, 0xc9, 0x82, 0xbf, 0x82, 0xcd}, "こんにちは"},
		{"gbk", "GBK", []byte{0xc4, 0xe3, 0xba, 0xc3}, "你好"},
		{"euc-kr", "EUC-KR", []byte{0xbe, 0xc8, 0xb3, 0xe7}, "안녕"},
		{"shift_jis long", "Shift_JIS", []byte{
			0x93, 0xfa, 0x96, 0x7b, 0x8c, 0xea, 0x82, 0xcc, 0x83, 0x65, 0x83, 0x4c,
			0x83, 0x58, 0x83, 0x67, 0x83, 0x54, 0x83, 0x93, 0x83, 0x76, 0x83, 0x8b,
			0x82, 0xc5, 0x82, 0xb7, 0x81, 0x42, 0x82, 0xb1, 0x82, 0xea, 0x82, 0xcd,
			0x95, 0xb6, 0x8e, 0x9a, 0x89, 0xbb, 0x82, 0xaf, 0x82, 0xcc, 0x83, 0x65,
			0x83, 0x58, 0x83, 0x67, 0x82, 0xc9, 0x8e, 0x67, 0x97, 0x70, 0x82, 0xb3,
			0x82, 0xea, 0x82, 0xdc, 0x82, 0xb7, 0x81, 0x42,
		}, "日本語のテキストサンプルです。これは文字化けのテストに使用されます。"},
	}
}
