package tablewriter

// Reserved characters of the COPY stream. None of them is printable, so
// ordinary text and numbers never need quoting.
const (
	ColumnDelimiter byte = 0x02 // STX
	RowDelimiter    byte = '\n'
	QuoteCharacter  byte = 0x03 // ETX
	EscapeCharacter byte = '\\'

	// NullToken is what an empty column value means to the server.
	NullToken = ""
)

const (
	defaultHost     = "localhost:5432"
	defaultCapacity = 64 * 1024
	defaultSSLMode  = "prefer"

	applicationNamePrefix = "tablewriter-"
	applicationNameParam  = "application_name"
)

// copyOptions is the option tail of every COPY command issued by a writer. It
// must agree with the reserved characters above.
const copyOptions = `FROM STDIN CSV NULL '' DELIMITER E'\x02' QUOTE E'\x03' ESCAPE E'\\'`
