package access_test

import (
	"github.com/frahmantamala/access-management/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tags", func() {
	strPtr := func(s string) *string { return &s }

	Describe("ParseTags", func() {
		It("returns nil for nil or blank text", func() {
			Expect(access.ParseTags(nil)).To(BeNil())
			Expect(access.ParseTags(strPtr("   \n  "))).To(BeNil())
		})

		It("parses key: value lines preserving order", func() {
			text := strPtr("account: jsmith\nlicense: enterprise\nregion: eu-west")
			tags := access.ParseTags(text)
			Expect(tags).To(Equal([]access.Tag{
				{Key: "account", Value: "jsmith"},
				{Key: "license", Value: "enterprise"},
				{Key: "region", Value: "eu-west"},
			}))
		})

		It("trims whitespace and skips blank lines", func() {
			text := strPtr("  account :  jsmith  \n\n license:enterprise ")
			tags := access.ParseTags(text)
			Expect(tags).To(Equal([]access.Tag{
				{Key: "account", Value: "jsmith"},
				{Key: "license", Value: "enterprise"},
			}))
		})

		It("keeps lines without a colon as value-less tags", func() {
			tags := access.ParseTags(strPtr("vpn-required"))
			Expect(tags).To(Equal([]access.Tag{{Key: "vpn-required"}}))
		})

		It("treats commas as plain value text, not separators", func() {
			tags := access.ParseTags(strPtr("env: prod,cost-center: fin"))
			Expect(tags).To(Equal([]access.Tag{{Key: "env", Value: "prod,cost-center: fin"}}))

			tags = access.ParseTags(strPtr("env: prod\ncost-center: fin"))
			Expect(tags).To(Equal([]access.Tag{
				{Key: "env", Value: "prod"},
				{Key: "cost-center", Value: "fin"},
			}))
		})

		It("splits on the first colon only", func() {
			tags := access.ParseTags(strPtr("url: https://example.com"))
			Expect(tags).To(Equal([]access.Tag{{Key: "url", Value: "https://example.com"}}))
		})
	})

	Describe("FormatTags", func() {
		It("returns nil for an empty set", func() {
			Expect(access.FormatTags(nil)).To(BeNil())
			Expect(access.FormatTags([]access.Tag{})).To(BeNil())
		})

		It("renders key: value lines", func() {
			text := access.FormatTags([]access.Tag{
				{Key: "account", Value: "jsmith"},
				{Key: "vpn-required"},
			})
			Expect(text).NotTo(BeNil())
			Expect(*text).To(Equal("account: jsmith\nvpn-required"))
		})

		It("round-trips through ParseTags", func() {
			tags := []access.Tag{
				{Key: "account", Value: "jsmith"},
				{Key: "license", Value: "enterprise"},
				{Key: "vpn-required"},
			}
			Expect(access.ParseTags(access.FormatTags(tags))).To(Equal(tags))
		})
	})
})
