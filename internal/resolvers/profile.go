// internal/resolvers/profile.go
package resolvers

import (
	"customer-query-service/internal/format"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
)

// Personal renders PersonalDetails. Contact identifiers are masked.
func Personal(rec record.Record, req Request) DomainResult {
	subType := req.SubType
	if subType == "" {
		subType = intent.SubTypeSummary
	}
	p, ok := rec.Sub(record.SectionPersonal)
	if !ok || len(p) == 0 {
		return missing(intent.TypePersonal, subType, "No personal information available.")
	}

	b := &format.Block{Title: "Personal Details"}
	switch subType {
	case intent.SubTypeAddress:
		b.AddOr("Address", address(p, "Address"), format.NotAvailable)
		b.Add("Correspondence Address", address(p, "Correspondence_Address"))
	case intent.SubTypeContact:
		b.AddOr("Mobile", masked(p, format.MaskPhone, "Mobile_Number"), format.NotAvailable)
		b.AddOr("Email", masked(p, format.MaskEmail, "Email"), format.NotAvailable)
	case intent.SubTypeIdentity:
		b.AddOr("Date of Birth", date(p, "Date_of_Birth"), format.NotAvailable)
		b.Add("Nationality", str(p, "Nationality"))
		b.Add("PAN", masked(p, format.MaskPAN, "PAN_Number"))
	default:
		b.AddOr("Name", firstOf(p, "Full_Name", "Name"), format.NotAvailable)
		b.Add("Customer ID", str(p, "Customer_ID"))
		b.AddOr("Date of Birth", date(p, "Date_of_Birth"), format.NotAvailable)
		b.Add("Gender", str(p, "Gender"))
		b.Add("Occupation", str(p, "Occupation"))
		b.AddOr("Mobile", masked(p, format.MaskPhone, "Mobile_Number"), format.NotAvailable)
		b.AddOr("Email", masked(p, format.MaskEmail, "Email"), format.NotAvailable)
		b.Add("Address", address(p, "Address"))
		b.Add("Customer Since", date(p, "Customer_Since"))
	}
	return found(intent.TypePersonal, subType, blockData([]*format.Block{b}), b.Render())
}

// Company renders CompanyDetails.
func Company(rec record.Record, _ Request) DomainResult {
	c, ok := rec.Sub(record.SectionCompany)
	if !ok || len(c) == 0 {
		return missing(intent.TypeCompany, "", "No company information available.")
	}
	cur := currencyOf(rec, c)

	b := &format.Block{Title: "Company Details"}
	b.AddOr("Company Name", firstOf(c, "Company_Name", "Name"), format.NotAvailable)
	b.Add("Constitution", firstOf(c, "Constitution", "Business_Type"))
	b.AddOr("CIN", firstOf(c, "CIN", "Registration_Number"), format.NotAvailable)
	b.AddOr("GSTIN", str(c, "GSTIN"), format.NotAvailable)
	b.Add("PAN", masked(c, format.MaskPAN, "PAN_Number"))
	b.Add("Incorporated On", date(c, "Incorporation_Date"))
	b.Add("Industry", str(c, "Industry"))
	b.Add("Annual Turnover", compactMoney(c, cur, "Annual_Turnover"))
	b.Add("Employees", str(c, "Employee_Count"))
	b.Add("Registered Address", address(c, "Registered_Address"))
	return found(intent.TypeCompany, "", blockData([]*format.Block{b}), b.Render())
}

// Credit renders CreditProfile.
func Credit(rec record.Record, _ Request) DomainResult {
	c, ok := rec.Sub(record.SectionCreditProfile)
	if !ok || len(c) == 0 {
		return missing(intent.TypeCredit, "", "No credit profile information available.")
	}
	cur := currencyOf(rec, c)

	b := &format.Block{Title: "Credit Profile"}
	b.AddOr("Credit Score", str(c, "Credit_Score"), format.NotAvailable)
	b.Add("Bureau", str(c, "Bureau"))
	b.Add("Score Date", date(c, "Score_Date"))
	b.Add("Internal Rating", str(c, "Credit_Rating"))
	b.Add("Total Credit Limit", compactMoney(c, cur, "Total_Credit_Limit"))
	b.Add("Credit Utilization", percent(c, "Credit_Utilization"))
	b.Add("Active Credit Lines", str(c, "Active_Credit_Lines"))
	b.Add("Payment History", str(c, "Payment_History"))
	return found(intent.TypeCredit, "", blockData([]*format.Block{b}), b.Render())
}

// Support renders the relationship manager, service channels and open
// service requests.
func Support(rec record.Record, _ Request) DomainResult {
	s, ok := rec.Sub(record.SectionSupport)
	if !ok || len(s) == 0 {
		return missing(intent.TypeSupport, "", "No support contact information available.")
	}

	b := &format.Block{Title: "Support"}
	b.AddOr("Relationship Manager", contactLine(s, "Relationship_Manager"), format.NotAvailable)
	b.Add("Home Branch", contactLine(s, "Branch_Contact"))
	b.AddOr("Customer Care", str(s, "Customer_Care_Number"), format.NotAvailable)
	b.Add("Support Email", str(s, "Support_Email"))
	blocks := []*format.Block{b}

	tickets, _ := s.Items("Open_Tickets")
	for i, t := range tickets {
		tb := &format.Block{Title: format.Indexed("Service Request", i)}
		tb.Add("Ticket", str(t, "Ticket_ID"))
		tb.Add("Subject", str(t, "Subject"))
		tb.Add("Status", str(t, "Status"))
		tb.Add("Raised On", date(t, "Raised_Date"))
		blocks = append(blocks, tb)
	}
	return found(intent.TypeSupport, "", blockData(blocks), format.Join(blocks...))
}

// AuthorizedSignatories lists every signatory with masked contact details.
func AuthorizedSignatories(rec record.Record, _ Request) DomainResult {
	list, ok := rec.Items(record.SectionSignatories)
	if !ok || len(list) == 0 {
		return missing(intent.TypeAuthorizedSignatory, "", "No authorised signatory information available.")
	}

	blocks := make([]*format.Block, 0, len(list))
	for i, s := range list {
		b := &format.Block{Title: format.Indexed("Signatory", i)}
		b.AddOr("Name", firstOf(s, "Name", "Full_Name"), format.NotAvailable)
		b.Add("Designation", str(s, "Designation"))
		b.Add("Signing Authority", firstOf(s, "Signing_Authority", "Authority"))
		b.Add("Signing Limit", money(s, currencyOf(rec, s), "Signing_Limit"))
		b.Add("Mode of Operation", str(s, "Mode_of_Operation"))
		b.Add("Mobile", masked(s, format.MaskPhone, "Mobile_Number"))
		b.Add("Email", masked(s, format.MaskEmail, "Email"))
		blocks = append(blocks, b)
	}
	return found(intent.TypeAuthorizedSignatory, "", blockData(blocks), format.Join(blocks...))
}

// DigitalAccess reports which digital channels are enabled.
func DigitalAccess(rec record.Record, _ Request) DomainResult {
	d, ok := rec.Sub(record.SectionDigitalAccess)
	if !ok || len(d) == 0 {
		return missing(intent.TypeDigitalAccess, "", "No digital banking information available.")
	}

	b := &format.Block{Title: "Digital Banking Access"}
	b.AddOr("Net Banking", yesNo(d, "Net_Banking", "Enabled"), format.NotAvailable)
	b.Add("Net Banking User ID", masked(d, format.MaskAccount, "Net_Banking", "User_ID"))
	b.Add("Last Login", date(d, "Net_Banking", "Last_Login"))
	b.AddOr("Mobile Banking", yesNo(d, "Mobile_Banking", "Enabled"), format.NotAvailable)
	b.Add("Registered Device", str(d, "Mobile_Banking", "Registered_Device"))
	b.Add("UPI", yesNo(d, "UPI", "Enabled"))
	b.Add("UPI ID", str(d, "UPI", "VPA"))
	b.Add("Two-Factor Authentication", yesNo(d, "Two_Factor_Enabled"))
	b.Add("Registered Mobile", masked(d, format.MaskPhone, "Registered_Mobile"))
	b.Add("Registered Email", masked(d, format.MaskEmail, "Registered_Email"))
	return found(intent.TypeDigitalAccess, "", blockData([]*format.Block{b}), b.Render())
}
