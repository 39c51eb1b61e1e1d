// Package cii construye el documento de intercambio de la factura:
// un Cross-Industry-Invoice (EN 16931, perfil ZUGFeRD) con orden de
// elementos fijo. Consume el mismo Ledger calculado que el proyector
// de presentación, sin recomputar ningún total: los dos artefactos de
// una misma ejecución no pueden discrepar.
package cii

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rechnungs-assistent/internal/domain/invoice"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/profile"
	"github.com/jhoicas/rechnungs-assistent/pkg/money"
)

// Namespaces UN/CEFACT del CrossIndustryInvoice D16B.
const (
	nsRsm = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsQdt = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	nsRam = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsXs  = "http://www.w3.org/2001/XMLSchema"
	nsUdt = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"

	// Identificador de la guía EN 16931 y código de tipo de documento
	// (380 = factura comercial).
	guidelineEN16931 = "urn:cen.eu:en16931:2017"
	typeCodeInvoice  = "380"

	// Formato 102 = fecha AAAAMMDD.
	dateFormat102 = "102"
	layoutYYYYMMDD = "20060102"

	// 58 = transferencia SEPA.
	paymentMeansSEPA = "58"
	paymentInfoSEPA  = "Zahlung per SEPA Überweisung."

	// H87 = unidad (pieza).
	unitCodePiece = "H87"
)

// Input reúne los datos de una proyección de intercambio.
type Input struct {
	Profile  *profile.Profile
	Ledger   *invoice.Ledger
	Identity invoice.Identity
	Customer invoice.Customer
	Currency string // símbolo; se traduce a ISO 4217 en el documento
}

// Builder serializa facturas al esquema CII.
type Builder struct{}

// NewBuilder construye el servicio.
func NewBuilder() *Builder { return &Builder{} }

// Build genera los bytes XML del documento. Con un Ledger válido no
// existe modo de fallo parcial: el único error posible viene de la
// frontera del serializador.
func (b *Builder) Build(in Input) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", nsRsm)
	root.CreateAttr("xmlns:qdt", nsQdt)
	root.CreateAttr("xmlns:ram", nsRam)
	root.CreateAttr("xmlns:xs", nsXs)
	root.CreateAttr("xmlns:udt", nsUdt)

	b.writeContext(root)
	b.writeDocumentHeader(root, in)

	txn := root.CreateElement("rsm:SupplyChainTradeTransaction")
	b.writeTradeAgreement(txn, in)
	b.writeTradeSettlement(txn, in)

	// Líneas: artículos y descuentos, cada sección numerada desde 1
	// de forma independiente (no es una secuencia continua).
	for i, item := range in.Ledger.Items {
		b.writeLineItem(txn, i+1, item, in.Ledger.VATRate)
	}
	for i, d := range in.Ledger.Discounts {
		b.writeDiscountLine(txn, i+1, d, in.Ledger.VATRate)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// writeContext emite el bloque de contexto de intercambio (guía EN 16931).
func (b *Builder) writeContext(root *etree.Element) {
	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	param := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	param.CreateElement("ram:ID").SetText(guidelineEN16931)
}

// writeDocumentHeader emite la cabecera: nota (MESSAGE del perfil con
// sus tokens resueltos), número, código de tipo 380 y fecha de emisión.
func (b *Builder) writeDocumentHeader(root *etree.Element, in Input) {
	doc := root.CreateElement("rsm:ExchangedDocument")

	note := doc.CreateElement("ram:IncludedNote")
	note.CreateElement("ram:Content").SetText(b.invoiceMessage(in))

	doc.CreateElement("ram:ID").SetText(in.Identity.Number)
	doc.CreateElement("ram:TypeCode").SetText(typeCodeInvoice)

	issue := doc.CreateElement("ram:IssueDateTime")
	writeDate102(issue, in.Identity.IssueDate.Format(layoutYYYYMMDD))
}

// invoiceMessage resuelve los tokens de la plantilla de mensaje del
// perfil; es el único token-aware de este proyector.
func (b *Builder) invoiceMessage(in Input) string {
	msg := in.Profile.Get(profile.KeyMessage, "")
	msg = strings.ReplaceAll(msg, "#!INVOICE-NUM", in.Identity.Number)
	msg = strings.ReplaceAll(msg, "#!PAY-DATE", in.Identity.DueDate.Format(invoice.DateLayout))
	return msg
}

// writeTradeAgreement emite las partes: vendedor desde el perfil,
// comprador desde los datos de cliente de la CLI.
func (b *Builder) writeTradeAgreement(txn *etree.Element, in Input) {
	agr := txn.CreateElement("ram:ApplicableHeaderTradeAgreement")

	seller := agr.CreateElement("ram:SellerTradeParty")
	seller.CreateElement("ram:ID")
	seller.CreateElement("ram:GlobalID").CreateAttr("schemeID", "0088")
	seller.CreateElement("ram:Name").SetText(in.Profile.Trimmed(profile.KeySenderCompany))
	addr := seller.CreateElement("ram:PostalTradeAddress")
	addr.CreateElement("ram:PostcodeCode").SetText(in.Profile.Trimmed(profile.KeySenderZIP))
	addr.CreateElement("ram:LineOne").SetText(in.Profile.Trimmed(profile.KeySenderStreet))
	addr.CreateElement("ram:CityName").SetText(in.Profile.Trimmed(profile.KeySenderCity))
	addr.CreateElement("ram:CountryID")
	taxID := in.Profile.Trimmed(profile.KeySenderTaxID)
	for _, scheme := range []string{"FC", "VA"} {
		reg := seller.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", scheme)
		id.SetText(taxID)
	}

	buyer := agr.CreateElement("ram:BuyerTradeParty")
	buyer.CreateElement("ram:ID")
	buyer.CreateElement("ram:Name").SetText(in.Customer.FullName())
	baddr := buyer.CreateElement("ram:PostalTradeAddress")
	baddr.CreateElement("ram:PostcodeCode").SetText(in.Customer.ZIP)
	baddr.CreateElement("ram:LineOne").SetText(in.Customer.Street)
	baddr.CreateElement("ram:CityName").SetText(in.Customer.City)
	baddr.CreateElement("ram:CountryID")
}

// writeTradeSettlement emite moneda, impuesto, sumatoria monetaria,
// medios de pago (IBAN/BIC) y condiciones (vencimiento).
func (b *Builder) writeTradeSettlement(txn *etree.Element, in Input) {
	l := in.Ledger
	iso := money.ISOCode(in.Currency)
	company := in.Profile.Trimmed(profile.KeySenderCompany)
	iban := in.Profile.Trimmed(profile.KeyIBAN)

	st := txn.CreateElement("ram:ApplicableHeaderTradeSettlement")
	st.CreateElement("ram:InvoiceCurrencyCode").SetText(iso)

	tax := st.CreateElement("ram:ApplicableTradeTax")
	tax.CreateElement("ram:CalculatedAmount").SetText(amount(l.VATAmount))
	tax.CreateElement("ram:TypeCode").SetText("VAT")
	tax.CreateElement("ram:BasisAmount").SetText(amount(l.NetTotal))
	tax.CreateElement("ram:CategoryCode").SetText("S")
	tax.CreateElement("ram:RateApplicablePercent").SetText(l.VATRate.String())

	sum := st.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	sum.CreateElement("ram:LineTotalAmount").SetText(amount(l.GrossTotal))
	sum.CreateElement("ram:ChargeTotalAmount").SetText("0.00")
	sum.CreateElement("ram:AllowanceTotalAmount").SetText("0.00")
	sum.CreateElement("ram:TaxBasisTotalAmount").SetText(amount(l.NetTotal))
	taxTotal := sum.CreateElement("ram:TaxTotalAmount")
	taxTotal.CreateAttr("currencyID", iso)
	taxTotal.SetText(amount(l.VATAmount))
	sum.CreateElement("ram:GrandTotalAmount").SetText(amount(l.GrossTotal))
	sum.CreateElement("ram:TotalPrepaidAmount").SetText("0.00")
	sum.CreateElement("ram:DuePayableAmount").SetText(amount(l.GrossTotal))

	card := st.CreateElement("ram:SpecifiedTradeSettlementFinancialCard")
	cardID := card.CreateElement("ram:ID")
	cardID.CreateAttr("schemeID", "IBAN")
	cardID.SetText(iban)
	card.CreateElement("ram:CardholderName").SetText(company)

	means := st.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
	means.CreateElement("ram:TypeCode").SetText(paymentMeansSEPA)
	means.CreateElement("ram:Information").SetText(paymentInfoSEPA)
	acct := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
	acct.CreateElement("ram:IBANID").SetText(iban)
	acct.CreateElement("ram:AccountName").SetText(company)
	inst := means.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
	inst.CreateElement("ram:BICID").SetText(in.Profile.Trimmed(profile.KeyBIC))

	terms := st.CreateElement("ram:SpecifiedTradePaymentTerms")
	due := terms.CreateElement("ram:DueDateDateTime")
	writeDate102(due, in.Identity.DueDate.Format(layoutYYYYMMDD))
}

// writeLineItem emite una línea de cargo con su identificador 1-based
// dentro de la sección de artículos.
func (b *Builder) writeLineItem(txn *etree.Element, lineID int, item invoice.LineItem, vatRate decimal.Decimal) {
	line := newTradeLine(txn, lineID, item.Description)

	agr := line.CreateElement("ram:SpecifiedLineTradeAgreement")
	gross := agr.CreateElement("ram:GrossPriceProductTradePrice")
	gross.CreateElement("ram:ChargeAmount").SetText(amount(item.UnitPrice))
	net := agr.CreateElement("ram:NetPriceProductTradePrice")
	net.CreateElement("ram:ChargeAmount").SetText(amount(item.UnitPrice))

	del := line.CreateElement("ram:SpecifiedLineTradeDelivery")
	qty := del.CreateElement("ram:BilledQuantity")
	qty.CreateAttr("unitCode", unitCodePiece)
	qty.SetText(item.Quantity.String())

	writeLineSettlement(line, vatRate, amount(item.Total()))
}

// writeDiscountLine representa un descuento como línea de importe
// negativo, numerada desde 1 dentro de su propia sección.
func (b *Builder) writeDiscountLine(txn *etree.Element, lineID int, d invoice.Discount, vatRate decimal.Decimal) {
	line := newTradeLine(txn, lineID, d.Label)

	neg := amount(d.Amount.Neg())
	agr := line.CreateElement("ram:SpecifiedLineTradeAgreement")
	gross := agr.CreateElement("ram:GrossPriceProductTradePrice")
	gross.CreateElement("ram:ChargeAmount").SetText(neg)
	net := agr.CreateElement("ram:NetPriceProductTradePrice")
	net.CreateElement("ram:ChargeAmount").SetText(neg)

	writeLineSettlement(line, vatRate, neg)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func newTradeLine(txn *etree.Element, lineID int, name string) *etree.Element {
	line := txn.CreateElement("ram:IncludedSupplyChainTradeLineItem")
	docLine := line.CreateElement("ram:AssociatedDocumentLineDocument")
	docLine.CreateElement("ram:LineID").SetText(strconv.Itoa(lineID))
	product := line.CreateElement("ram:SpecifiedTradeProduct")
	product.CreateElement("ram:Name").SetText(name)
	return line
}

func writeLineSettlement(line *etree.Element, vatRate decimal.Decimal, lineTotal string) {
	st := line.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := st.CreateElement("ram:ApplicableTradeTax")
	tax.CreateElement("ram:TypeCode").SetText("VAT")
	tax.CreateElement("ram:CategoryCode").SetText("S")
	tax.CreateElement("ram:RateApplicablePercent").SetText(vatRate.String())
	sum := st.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	sum.CreateElement("ram:LineTotalAmount").SetText(lineTotal)
}

func writeDate102(parent *etree.Element, yyyymmdd string) {
	dt := parent.CreateElement("udt:DateTimeString")
	dt.CreateAttr("format", dateFormat102)
	dt.SetText(yyyymmdd)
}

// amount serializa un decimal con exactamente dos decimales, el mismo
// redondeo half-up que aplica el formateador monetario del proyector
// de presentación.
func amount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
