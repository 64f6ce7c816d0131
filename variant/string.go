package variant

// NewString allocates an arena-owned, mutable string of the given
// length, all zero bytes, using the default charset. The caller fills
// it in with StringSet before freezing it.
func (a *Arena) NewString(length int) Variant {
	return Variant{kind: KindString, str: &stringData{
		arena:   a,
		chars:   make([]byte, length),
		charset: DefaultCharset,
	}}
}

// NewStringWithCharset is like NewString but with an explicit charset.
func (a *Arena) NewStringWithCharset(length int, charset string) Variant {
	return Variant{kind: KindString, str: &stringData{
		arena:   a,
		chars:   make([]byte, length),
		charset: normalizeCharsetOrKeep(charset),
	}}
}

// NewStringFrom copies chars into a fresh arena-owned string.
func (a *Arena) NewStringFrom(chars []byte) Variant {
	return a.NewStringFromCharset(chars, DefaultCharset)
}

// NewStringFromCharset copies chars into a fresh arena-owned string
// tagged with the given charset.
func (a *Arena) NewStringFromCharset(chars []byte, charset string) Variant {
	copied := make([]byte, len(chars))
	copy(copied, chars)
	return Variant{kind: KindString, str: &stringData{
		arena:   a,
		chars:   copied,
		charset: normalizeCharsetOrKeep(charset),
	}}
}

// ExternalString wraps caller-owned bytes without copying. External
// strings are always frozen since this package can't know when the
// caller's backing storage goes away.
func ExternalString(chars []byte) Variant {
	return Variant{kind: KindString, str: &stringData{
		chars:    chars,
		charset:  DefaultCharset,
		external: true,
		frozen:   true,
	}}
}

// ExternalStringWithCharset is ExternalString with an explicit charset.
func ExternalStringWithCharset(chars []byte, charset string) Variant {
	return Variant{kind: KindString, str: &stringData{
		chars:    chars,
		charset:  normalizeCharsetOrKeep(charset),
		external: true,
		frozen:   true,
	}}
}

// StringChars returns the string's bytes, or nil if this isn't a
// string.
func (v Variant) StringChars() []byte {
	if v.kind != KindString || v.str == nil {
		return nil
	}
	return v.str.chars
}

// StringLength returns the string's byte length, or 0 if this isn't a
// string.
func (v Variant) StringLength() int {
	if v.kind != KindString || v.str == nil {
		return 0
	}
	return len(v.str.chars)
}

// StringCharset returns the string's character set name, or "" if this
// isn't a string.
func (v Variant) StringCharset() string {
	if v.kind != KindString || v.str == nil {
		return ""
	}
	return v.str.charset
}

// StringSet overwrites the string's contents in place. It fails (and
// makes no change) if the string is frozen or this isn't a mutable
// string.
func (v Variant) StringSet(chars []byte) bool {
	if v.kind != KindString || v.str == nil || v.str.frozen || v.str.external {
		return false
	}
	v.str.chars = append(v.str.chars[:0], chars...)
	return true
}

// NewBlob allocates an arena-owned, mutable blob of the given size, all
// zero bytes.
func (a *Arena) NewBlob(size int) Variant {
	return Variant{kind: KindBlob, blob: &blobData{arena: a, data: make([]byte, size)}}
}

// NewBlobFrom copies data into a fresh arena-owned blob.
func (a *Arena) NewBlobFrom(data []byte) Variant {
	copied := make([]byte, len(data))
	copy(copied, data)
	return Variant{kind: KindBlob, blob: &blobData{arena: a, data: copied}}
}

// ExternalBlob wraps caller-owned bytes without copying. External blobs
// are always frozen.
func ExternalBlob(data []byte) Variant {
	return Variant{kind: KindBlob, blob: &blobData{data: data, external: true, frozen: true}}
}

// BlobData returns the blob's bytes, or nil if this isn't a blob.
func (v Variant) BlobData() []byte {
	if v.kind != KindBlob || v.blob == nil {
		return nil
	}
	return v.blob.data
}

// BlobSize returns the blob's size, or 0 if this isn't a blob.
func (v Variant) BlobSize() int {
	if v.kind != KindBlob || v.blob == nil {
		return 0
	}
	return len(v.blob.data)
}

// BlobSet overwrites the blob's contents in place. It fails (and makes
// no change) if the blob is frozen or this isn't a mutable blob.
func (v Variant) BlobSet(data []byte) bool {
	if v.kind != KindBlob || v.blob == nil || v.blob.frozen || v.blob.external {
		return false
	}
	v.blob.data = append(v.blob.data[:0], data...)
	return true
}
