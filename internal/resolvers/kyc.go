// internal/resolvers/kyc.go
package resolvers

import (
	"customer-query-service/internal/format"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
)

// KYC combines compliance status from KYC_Compliance with the submitted
// document list under Personal_KYC_ID.
func KYC(rec record.Record, req Request) DomainResult {
	subType := req.SubType
	if subType == "" {
		subType = intent.SubTypeAll
	}

	var blocks []*format.Block
	if subType == intent.SubTypeStatus || subType == intent.SubTypeAll {
		if b := kycStatus(rec); b != nil {
			blocks = append(blocks, b)
		}
	}
	if subType == intent.SubTypeDocuments || subType == intent.SubTypeAll {
		if b := kycDocuments(rec); b != nil {
			blocks = append(blocks, b)
		}
	}

	if len(blocks) == 0 {
		msg := "No KYC information available."
		if subType == intent.SubTypeDocuments {
			msg = "No KYC documents have been recorded."
		}
		return missing(intent.TypeKYC, subType, msg)
	}
	return found(intent.TypeKYC, subType, blockData(blocks), format.Join(blocks...))
}

func kycStatus(rec record.Record) *format.Block {
	k, ok := rec.Sub(record.SectionKYCCompliance)
	if !ok || len(k) == 0 {
		return nil
	}
	b := &format.Block{Title: "KYC Status"}
	b.AddOr("KYC Status", str(k, "KYC_Status"), format.NotAvailable)
	b.Add("Last KYC Date", date(k, "Last_KYC_Date"))
	b.Add("Next KYC Due", date(k, "Next_KYC_Due_Date"))
	b.Add("Risk Category", str(k, "Risk_Category"))
	b.Add("CKYC Number", masked(k, format.MaskAccount, "CKYC_Number"))
	b.Add("AML Status", str(k, "AML_Status"))
	b.Add("FATCA Status", str(k, "FATCA_Status"))
	return b
}

// kycDocuments accepts either a list of document mappings or a list of plain
// document names.
func kycDocuments(rec record.Record) *format.Block {
	list, ok := rec.List(record.SectionPersonalKYC, "KYC_Documents_Submitted")
	if !ok || len(list) == 0 {
		return nil
	}
	var lines []string
	for _, el := range list {
		if s, ok := record.AsString(el); ok {
			lines = append(lines, s)
			continue
		}
		m, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		doc := record.Record(m)
		line := firstOf(doc, "Document_Type", "Type", "Name")
		if line == "" {
			continue
		}
		if st := firstOf(doc, "Verification_Status", "Status"); st != "" {
			line += " (" + st + ")"
		}
		if d := date(doc, "Submitted_Date"); d != "" {
			line += ", submitted " + d
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil
	}
	b := &format.Block{Title: "KYC Documents Submitted"}
	b.Text(format.List(lines))
	return b
}

// Aadhaar reports the masked Aadhaar number. The full number is never
// rendered.
func Aadhaar(rec record.Record, _ Request) DomainResult {
	for _, path := range []record.Path{
		record.P(record.SectionPersonal, "Aadhaar_Number"),
		record.P(record.SectionPersonalKYC, "Aadhaar_Number"),
	} {
		if s, ok := rec.String(path...); ok {
			m := format.Mask(s, format.MaskAadhaar)
			return found(intent.TypeAadhaarNumber, "", map[string]string{"Aadhaar Number": m},
				"Your registered Aadhaar number is "+m+".")
		}
	}
	return missing(intent.TypeAadhaarNumber, "", "No Aadhaar number is registered on this profile.")
}
