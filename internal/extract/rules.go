package extract

import "github.com/tradefin-labs/formflow/internal/core/domain"

// defaultFieldRules is the built-in field table per document type. Each
// pattern captures the value following its label up to end of line.
func defaultFieldRules() map[domain.DocumentType][]FieldRule {
	return map[domain.DocumentType][]FieldRule{
		domain.TypeCommercialInvoice: {
			{Name: "invoiceNumber", Pattern: `invoice\s*(?:no|number|#)[.:\s]+([A-Z0-9][A-Z0-9\-\/]*)`},
			{Name: "invoiceDate", Pattern: `(?:invoice\s*)?date[d]?[:\s]+(\d{1,2}[\/\-.]\d{1,2}[\/\-.]\d{2,4})`},
			{Name: "seller", Pattern: `(?:seller|vendor|supplier)[:\s]+([^\n]+)`},
			{Name: "buyer", Pattern: `(?:buyer|customer|bill\s*to)[:\s]+([^\n]+)`},
			{Name: "totalAmount", Pattern: `(?:grand\s*)?total(?:\s*amount)?[:\s]*\$?\s*([0-9][0-9,]*\.?\d*)`},
			{Name: "currency", Pattern: `currency[:\s]+([A-Z]{3})`},
		},
		domain.TypeBillOfLading: {
			{Name: "blNumber", Pattern: `b\/?l\s*(?:no|number|#)[.:\s]+([A-Z0-9][A-Z0-9\-\/]*)`},
			{Name: "shipper", Pattern: `shipper[:\s]+([^\n]+)`},
			{Name: "consignee", Pattern: `consignee[:\s]+([^\n]+)`},
			{Name: "vesselName", Pattern: `vessel(?:\s*name)?[:\s]+([^\n]+)`},
			{Name: "portOfLoading", Pattern: `port\s*of\s*loading[:\s]+([^\n]+)`},
			{Name: "portOfDischarge", Pattern: `port\s*of\s*discharge[:\s]+([^\n]+)`},
		},
		domain.TypeCertificateOfOrigin: {
			{Name: "certificateNumber", Pattern: `certificate\s*(?:no|number|#)[.:\s]+([A-Z0-9][A-Z0-9\-\/]*)`},
			{Name: "countryOfOrigin", Pattern: `country\s*of\s*origin[:\s]+([^\n]+)`},
			{Name: "exporter", Pattern: `exporter[:\s]+([^\n]+)`},
			{Name: "consignee", Pattern: `consignee[:\s]+([^\n]+)`},
			{Name: "issueDate", Pattern: `(?:issue\s*date|date\s*of\s*issue)[:\s]+(\d{1,2}[\/\-.]\d{1,2}[\/\-.]\d{2,4})`},
		},
		domain.TypePackingList: {
			{Name: "packingListNumber", Pattern: `packing\s*list\s*(?:no|number|#)[.:\s]+([A-Z0-9][A-Z0-9\-\/]*)`},
			{Name: "totalPackages", Pattern: `(?:total\s*packages|no\.?\s*of\s*packages)[:\s]+(\d+)`},
			{Name: "grossWeight", Pattern: `gross\s*weight[:\s]+([0-9][0-9,]*\.?\d*)`},
			{Name: "netWeight", Pattern: `net\s*weight[:\s]+([0-9][0-9,]*\.?\d*)`},
			{Name: "dimensions", Pattern: `(?:dimensions|measurements)[:\s]+([^\n]+)`},
		},
		domain.TypeLCDocument: {
			{Name: "lcNumber", Pattern: `(?:lc|credit|documentary\s*credit)\s*(?:no|number|#)[.:\s]+([A-Z0-9][A-Z0-9\-\/]*)`},
			{Name: "issuingBank", Pattern: `issuing\s*bank[:\s]+([^\n]+)`},
			{Name: "beneficiary", Pattern: `beneficiary[:\s]+([^\n]+)`},
			{Name: "applicant", Pattern: `applicant[:\s]+([^\n]+)`},
			{Name: "lcAmount", Pattern: `(?:lc|credit)\s*amount[:\s]*\$?\s*([0-9][0-9,]*\.?\d*)`},
			{Name: "expiryDate", Pattern: `(?:expiry\s*date|valid\s*until|expires)[:\s]+(\d{1,2}[\/\-.]\d{1,2}[\/\-.]\d{2,4})`},
		},
		domain.TypeInsuranceCertificate: {
			{Name: "policyNumber", Pattern: `policy\s*(?:no|number|#)[.:\s]+([A-Z0-9][A-Z0-9\-\/]*)`},
			{Name: "insuredAmount", Pattern: `insured\s*amount[:\s]*\$?\s*([0-9][0-9,]*\.?\d*)`},
			{Name: "insured", Pattern: `(?:the\s*)?insured[:\s]+([^\n]+)`},
			{Name: "coverage", Pattern: `coverage[:\s]+([^\n]+)`},
		},
		domain.TypeBillOfExchange: {
			{Name: "draftNumber", Pattern: `(?:draft|exchange)\s*(?:no|number|#)[.:\s]+([A-Z0-9][A-Z0-9\-\/]*)`},
			{Name: "drawer", Pattern: `drawer[:\s]+([^\n]+)`},
			{Name: "drawee", Pattern: `drawee[:\s]+([^\n]+)`},
			{Name: "tenor", Pattern: `tenor[:\s]+([^\n]+)`},
			{Name: "amount", Pattern: `amount[:\s]*\$?\s*([0-9][0-9,]*\.?\d*)`},
		},
	}
}
