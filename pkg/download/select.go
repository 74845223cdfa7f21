package download

// SelectDescriptor picks the first full-length mp3 descriptor, falling back
// to the first descriptor when there is none. fallback reports whether the
// fallback was taken. ok is false only for an empty list.
func SelectDescriptor(descriptors []Descriptor) (selected Descriptor, fallback bool, ok bool) {
	if len(descriptors) == 0 {
		return Descriptor{}, false, false
	}

	for _, d := range descriptors {
		if d.Codec == "mp3" && !d.Preview {
			return d, false, true
		}
	}

	return descriptors[0], true, true
}
