package fileio

// Mojibake repair: text that was decoded with a single-byte Western encoding
// but was really written in a multi-byte one (UTF-8, GBK) is turned back into
// bytes with the wrong encoding and decoded again with the right one.

// Repair re-derives the bytes of text under source and decodes them under
// target. Sequences invalid in target become U+FFFD. Repair never fails:
// unknown encodings, unrepresentable runes or any internal error return text
// unchanged.
func Repair(text, source, target string) (out string) {
	if text == "" {
		return text
	}
	defer func() {
		if recover() != nil {
			out = text
		}
	}()

	src, err := LookupCodec(source)
	if err != nil {
		return text
	}
	dst, err := LookupCodec(target)
	if err != nil {
		return text
	}
	raw, err := src.Encode(text)
	if err != nil {
		return text
	}
	return dst.DecodeReplacing(raw)
}

// RepairDefault is Repair(text, "latin1", "utf-8").
func RepairDefault(text string) string {
	return Repair(text, FallbackEncoding, "utf-8")
}

// RepairTable applies RepairDefault to every label and every text cell in
// place and returns how many fields changed.
func RepairTable(t *Table) int {
	if t == nil {
		return 0
	}
	changed := 0
	fix := func(s string) string {
		r := RepairDefault(s)
		if r != s {
			changed++
		}
		return r
	}
	for i := range t.Columns {
		col := &t.Columns[i]
		col.Label = fix(col.Label)
		for j := range col.Cells {
			switch col.Cells[j].Kind {
			case KindText:
				col.Cells[j].Text = fix(col.Cells[j].Text)
			case KindNumeric, KindMissing:
			}
		}
	}
	return changed
}
