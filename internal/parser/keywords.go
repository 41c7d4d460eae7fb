package parser

import "stockinsight/internal/model"

// Bilingual (Indonesian/English) header keyword tables. Roles are matched in
// the order of roleKeywordOrder; the first matching, not-yet-claimed column
// wins per role. Revenue is tried before price so that "Total Harga" is not
// swallowed by the bare "harga" keyword.
var roleKeywords = map[model.ColumnRole][]string{
	model.RoleDate: {
		"tanggal", "tgl", "date", "waktu", "time", "bulan", "periode", "period",
	},
	model.RoleSKU: {
		"sku", "kode barang", "kode produk", "kode", "barcode", "artikel", "item code",
	},
	model.RoleRevenue: {
		"omzet", "omset", "pendapatan", "revenue", "total harga", "total penjualan",
		"subtotal", "nilai penjualan", "total",
	},
	model.RolePrice: {
		"harga satuan", "harga jual", "harga", "price", "unit price", "satuan", "tarif",
	},
	model.RoleQuantity: {
		"qty", "quantity", "jumlah terjual", "terjual", "jumlah", "sold", "banyak",
		"pcs", "unit terjual", "kuantitas",
	},
	model.RoleProduct: {
		"nama produk", "nama barang", "produk", "product", "barang", "item", "menu",
		"nama", "deskripsi", "description",
	},
	model.RoleCategory: {
		"kategori", "category", "jenis", "tipe", "type", "golongan",
	},
	model.RoleVariant: {
		"varian", "variant", "ukuran", "size", "warna", "color", "colour", "model",
	},
}

// roleKeywordOrder is the header-matching priority. Date and SKU go first so
// their columns are claimed before any numeric heuristic can touch them;
// product before category so "Nama Produk" beats "Jenis Produk" ambiguity.
var roleKeywordOrder = []model.ColumnRole{
	model.RoleDate,
	model.RoleSKU,
	model.RoleRevenue,
	model.RolePrice,
	model.RoleQuantity,
	model.RoleProduct,
	model.RoleCategory,
	model.RoleVariant,
}

// quantityExclusions are header fragments that disqualify a column from ever
// receiving the quantity role. Order dates, order ids and location columns
// are numeric and small enough to fool the magnitude heuristic otherwise.
var quantityExclusions = []string{
	"tanggal", "tgl", "date", "waktu", "time",
	"channel", "platform", "marketplace",
	"kota", "city", "provinsi", "alamat",
	"pembeli", "buyer", "customer", "pelanggan",
	"order", "invoice", "no.", "id",
}
