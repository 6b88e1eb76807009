package detect

import "github.com/tradefin-labs/formflow/internal/core/domain"

// defaultRules is the compiled-in trade-finance table. Order matters: the
// classifier breaks score ties in favor of the earlier type.
func defaultRules() []TypeRule {
	return []TypeRule{
		{
			Type:    string(domain.TypeCommercialInvoice),
			Headers: []string{`commercial\s+invoice`, `proforma\s+invoice`, `tax\s+invoice`},
			Indicators: []string{
				`commercial\s+invoice`, `invoice\s+no`, `invoice\s+number`, `seller`, `buyer`,
				`total\s+amount`, `unit\s+price`, `description\s+of\s+goods`, `\bfob\b`, `\bcif\b`,
			},
		},
		{
			Type:    string(domain.TypeBillOfLading),
			Headers: []string{`bill\s+of\s+lading`, `ocean\s+bill`, `sea\s+waybill`},
			Indicators: []string{
				`bill\s+of\s+lading`, `b/l`, `bl\s+no`, `ocean\s+bill`, `shipper`, `consignee`,
				`port\s+of\s+loading`, `port\s+of\s+discharge`, `vessel`,
			},
		},
		{
			Type:    string(domain.TypeCertificateOfOrigin),
			Headers: []string{`certificate\s+of\s+origin`},
			Indicators: []string{
				`certificate\s+of\s+origin`, `country\s+of\s+origin`, `chamber\s+of\s+commerce`,
				`origin\s+certificate`, `exporter`, `goods\s+originating`,
			},
		},
		{
			Type:    string(domain.TypePackingList),
			Headers: []string{`packing\s+list`, `weight\s+list`},
			Indicators: []string{
				`packing\s+list`, `weight\s+list`, `net\s+weight`, `gross\s+weight`,
				`carton\s+no`, `packages`, `measurement`, `dimensions`,
			},
		},
		{
			Type:    string(domain.TypeLCDocument),
			Headers: []string{`letter\s+of\s+credit`, `documentary\s+credit`},
			Indicators: []string{
				`letter\s+of\s+credit`, `documentary\s+credit`, `lc\s+no`, `credit\s+no`,
				`irrevocable`, `beneficiary`, `applicant`, `issuing\s+bank`, `advising\s+bank`,
			},
		},
		{
			Type:    string(domain.TypeInsuranceCertificate),
			Headers: []string{`insurance\s+certificate`, `insurance\s+policy`},
			Indicators: []string{
				`insurance\s+certificate`, `insurance\s+policy`, `marine\s+insurance`,
				`policy\s+no`, `insured\s+amount`, `coverage`,
			},
		},
		{
			Type:    string(domain.TypeBillOfExchange),
			Headers: []string{`bill\s+of\s+exchange`, `first\s+of\s+exchange`},
			Indicators: []string{
				`bill\s+of\s+exchange`, `at\s+sight`, `pay\s+to\s+the\s+order`, `drawn\s+under`,
				`drawer`, `drawee`, `tenor`,
			},
		},
	}
}
