package quickbooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

func TestMarshalRequestEnvelope(t *testing.T) {
	body := NewRecord().
		SetChild("VendorAdd", NewRecord().Set("Name", "ACME & Sons"))

	got := string(MarshalRequest("VendorAddRq", body, "8.0", "stopOnError"))
	want := `<?xml version="1.0"?>` +
		`<?qbxml version="8.0"?>` +
		`<QBXML><QBXMLMsgsRq onError="stopOnError">` +
		`<VendorAddRq requestID="1">` +
		`<VendorAdd><Name>ACME &amp; Sons</Name></VendorAdd>` +
		`</VendorAddRq>` +
		`</QBXMLMsgsRq></QBXML>`
	assert.Equal(t, want, got)
}

func TestMarshalRequestRepeatedChildren(t *testing.T) {
	body := NewRecord().
		Set("TxnID", "5-17").
		AddChild("ExpenseLineMod", NewRecord().Set("Amount", "100.00")).
		AddChild("ExpenseLineMod", NewRecord().Set("Amount", "250.00"))

	got := string(MarshalRequest("BillModRq", body, "8.0", "stopOnError"))
	assert.Contains(t, got,
		`<TxnID>5-17</TxnID>`+
			`<ExpenseLineMod><Amount>100.00</Amount></ExpenseLineMod>`+
			`<ExpenseLineMod><Amount>250.00</Amount></ExpenseLineMod>`)
}

func TestUnmarshalResponseEntities(t *testing.T) {
	data := []byte(`<?xml version="1.0"?><QBXML><QBXMLMsgsRs>` +
		`<VendorQueryRs requestID="1" statusCode="0" statusSeverity="Info" statusMessage="OK">` +
		`<VendorRet><ListID>80-1</ListID><Name>ACME</Name></VendorRet>` +
		`<VendorRet><ListID>80-2</ListID><Name>Birch LLP</Name></VendorRet>` +
		`</VendorQueryRs></QBXMLMsgsRs></QBXML>`)

	records, err := UnmarshalResponse(data)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "80-1", records[0].Text("ListID"))
	assert.Equal(t, "Birch LLP", records[1].Text("Name"))
}

func TestUnmarshalResponseNestedLines(t *testing.T) {
	data := []byte(`<QBXML><QBXMLMsgsRs>` +
		`<BillQueryRs statusSeverity="Info">` +
		`<BillRet><TxnID>5-17</TxnID>` +
		`<ExpenseLineRet><TxnLineID>5-18</TxnLineID><Amount>100.00</Amount></ExpenseLineRet>` +
		`<ExpenseLineRet><TxnLineID>5-19</TxnLineID><Amount>250.00</Amount></ExpenseLineRet>` +
		`</BillRet>` +
		`</BillQueryRs></QBXMLMsgsRs></QBXML>`)

	records, err := UnmarshalResponse(data)
	require.NoError(t, err)
	require.Len(t, records, 1)

	lines := records[0].List("ExpenseLineRet")
	require.Len(t, lines, 2)
	assert.Equal(t, "5-19", lines[1].Text("TxnLineID"))

	// A bill with one line still yields a one-element list.
	single := []byte(`<QBXML><QBXMLMsgsRs><BillQueryRs statusSeverity="Info">` +
		`<BillRet><TxnID>5-20</TxnID>` +
		`<ExpenseLineRet><Amount>75.00</Amount></ExpenseLineRet>` +
		`</BillRet></BillQueryRs></QBXMLMsgsRs></QBXML>`)
	records, err = UnmarshalResponse(single)
	require.NoError(t, err)
	assert.Len(t, records[0].List("ExpenseLineRet"), 1)
}

func TestUnmarshalResponseRepeatedScalarLeaves(t *testing.T) {
	data := []byte(`<QBXML><QBXMLMsgsRs>` +
		`<DataExtQueryRs statusSeverity="Info">` +
		`<DataExtRet><DataExtValue>first</DataExtValue><DataExtValue>second</DataExtValue></DataExtRet>` +
		`</DataExtQueryRs></QBXMLMsgsRs></QBXML>`)

	records, err := UnmarshalResponse(data)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Every repeated value survives as its own field, in wire order.
	assert.Equal(t, []string{"DataExtValue", "DataExtValue"}, records[0].Keys())
	assert.Equal(t, "first", records[0].Text("DataExtValue"))

	// Re-encoding emits the leaves as repeated siblings again.
	out := string(MarshalRequest("DataExtAddRq", records[0], "8.0", "stopOnError"))
	assert.Contains(t, out, "<DataExtValue>first</DataExtValue><DataExtValue>second</DataExtValue>")
}

func TestUnmarshalResponseEmptyResult(t *testing.T) {
	data := []byte(`<QBXML><QBXMLMsgsRs>` +
		`<VendorQueryRs statusCode="1" statusSeverity="Warn" statusMessage="no match"/>` +
		`</QBXMLMsgsRs></QBXML>`)

	records, err := UnmarshalResponse(data)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUnmarshalResponseStatusError(t *testing.T) {
	data := []byte(`<QBXML><QBXMLMsgsRs>` +
		`<BillAddRs statusCode="3140" statusSeverity="Error" statusMessage="invalid reference"/>` +
		`</QBXMLMsgsRs></QBXML>`)

	_, err := UnmarshalResponse(data)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBooksStatus))
	assert.Contains(t, err.Error(), "invalid reference")
}

func TestUnmarshalResponseMalformed(t *testing.T) {
	_, err := UnmarshalResponse([]byte(`<QBXML><QBXMLMsgsRs>`))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBooksResponse))
}
