package models

// CompressedImage is the transcoder output.
type CompressedImage struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// EncodedImage is a data URL: data:<mime>;base64,<payload>.
type EncodedImage string

// Download is an exported image ready to be saved to disk.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}
