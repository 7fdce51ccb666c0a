package schema

// Product field names.
const (
	ProductID          = "ProductID"
	ProductDescription = "ProductDescription"
	DateAdded          = "DateAdded"
	Price              = "Price"
)

// Product is the layout of the product worksheet: one column per field,
// starting at the leftmost non-empty column.
var Product = MustNew("Product",
	Field{Name: ProductID, Type: FieldInteger},
	Field{Name: ProductDescription, Type: FieldText},
	Field{Name: DateAdded, Type: FieldTimestamp},
	Field{Name: Price, Type: FieldDecimal},
)
