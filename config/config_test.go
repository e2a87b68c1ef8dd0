package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = Describe("Region", func() {
	It("should contain its corners", func() {
		r := DefaultRegion()
		gomega.Expect(r.Contains(36, 60)).To(gomega.BeTrue())
		gomega.Expect(r.Contains(56, 119)).To(gomega.BeTrue())
		gomega.Expect(r.Contains(35, 60)).To(gomega.BeFalse())
		gomega.Expect(r.Contains(36, 120)).To(gomega.BeFalse())
	})

	It("should admit everything for the full device", func() {
		r := FullDevice()
		gomega.Expect(r.Contains(0, 0)).To(gomega.BeTrue())
		gomega.Expect(r.Contains(1000000, 1000000)).To(gomega.BeTrue())
	})
})

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "config")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	write := func(content string) string {
		path := filepath.Join(dir, "config.yaml")
		gomega.Expect(os.WriteFile(path, []byte(content), 0644)).To(gomega.Succeed())
		return path
	}

	It("should fill absent fields from the defaults", func() {
		path := write("device: other.device\n")
		cfg, err := Load(path)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(cfg.Device).To(gomega.Equal("other.device"))
		gomega.Expect(cfg.Region).To(gomega.Equal(DefaultRegion()))
	})

	It("should read a full region", func() {
		path := write("device: xcvu3p.device\nregion:\n  min_x: 0\n  max_x: 10\n  min_y: 5\n  max_y: 15\n")
		cfg, err := Load(path)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(cfg.Region).To(gomega.Equal(Region{MinX: 0, MaxX: 10, MinY: 5, MaxY: 15}))
	})

	It("should reject an empty region", func() {
		path := write("region:\n  min_x: 10\n  max_x: 5\n  min_y: 0\n  max_y: 10\n")
		_, err := Load(path)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	It("should fail on a missing file", func() {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
