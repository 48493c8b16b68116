package csvimport

import "fmt"

type template struct {
	filename string
	header   string
	example  string
}

var templates = map[Kind]template{
	KindTickets: {
		filename: "plantilla_tickets.csv",
		header:   "ID_Ticket;Fecha;Hora;Total;MetodoPago;Items",
		example:  "T001;2024-01-15;14:30;45.50;Tarjeta;3",
	},
	KindProducts: {
		filename: "plantilla_catalogo.csv",
		header:   "ID;Nombre;Categoria;Costo;Precio;VentasMensuales",
		example:  "P001;Hamburguesa Clásica;Comida;3.50;12.90;150",
	},
	KindPromotions: {
		filename: "plantilla_promociones.csv",
		header:   "ID_Promo;Nombre;Canjes;DescuentoTotal;Fecha",
		example:  "PR01;2x1 Cerveza;45;135.00;2024-01-15",
	},
}

// Template returns the download name and BOM-prefixed content of the
// example file for a kind.
func Template(kind Kind) (string, []byte, error) {
	t, ok := templates[kind]
	if !ok {
		return "", nil, fmt.Errorf("no template for %q", kind)
	}
	return t.filename, []byte(bom + t.header + "\n" + t.example + "\n"), nil
}
