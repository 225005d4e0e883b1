package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/gomega"
)

// WriteRecord writes v as JSON to dir/name.
func WriteRecord(dir, name string, v any) {
	data, err := json.Marshal(v)
	Expect(err).NotTo(HaveOccurred())
	Expect(os.WriteFile(filepath.Join(dir, name), data, 0o644)).To(Succeed())
}

// WriteRaw writes raw bytes to dir/name.
func WriteRaw(dir, name, content string) {
	Expect(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)).To(Succeed())
}
