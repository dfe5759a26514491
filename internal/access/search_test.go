package access

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FilterUserAccess", func() {
	rows := []*UserAccess{
		{AccessID: "a1", Name: "Jane Smith", Email: "jane.smith@company.com", Department: "HR", Role: "Admin"},
		{AccessID: "a2", Name: "Mike Johnson", Email: "mike.johnson@company.com", Department: "Finance", Role: "Viewer"},
		{AccessID: "a3", Name: "Emily Davis", Email: "emily.davis@company.com", Department: "HR"},
	}

	It("returns everything for an empty query", func() {
		Expect(FilterUserAccess(rows, "")).To(HaveLen(3))
	})

	It("matches name case-insensitively", func() {
		got := FilterUserAccess(rows, "JANE")
		Expect(got).To(HaveLen(1))
		Expect(got[0].AccessID).To(Equal("a1"))
	})

	It("matches email substrings", func() {
		got := FilterUserAccess(rows, "mike.johnson@")
		Expect(got).To(HaveLen(1))
		Expect(got[0].AccessID).To(Equal("a2"))
	})

	It("matches department and role", func() {
		Expect(FilterUserAccess(rows, "hr")).To(HaveLen(2))
		Expect(FilterUserAccess(rows, "viewer")).To(HaveLen(1))
	})

	It("keeps the incoming order", func() {
		got := FilterUserAccess(rows, "company.com")
		Expect(got[0].AccessID).To(Equal("a1"))
		Expect(got[2].AccessID).To(Equal("a3"))
	})

	It("drops rows with no matching field", func() {
		Expect(FilterUserAccess(rows, "salesforce")).To(BeEmpty())
	})
})
