package entity

// StockLevel agregado del libro para un producto: total de entradas y salidas.
type StockLevel struct {
	ProductID string
	In        int
	Out       int
}

// Current devuelve entradas - salidas, sin recortar a cero.
func (s StockLevel) Current() int {
	return s.In - s.Out
}
