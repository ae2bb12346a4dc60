package audit

// referenceDose escala la dosis nominal de la regla al paciente según
// la unidad: por superficie corporal, por peso, o plana. Sin redondeo;
// las comparaciones aguas abajo usan el flotante crudo.
func referenceDose(r Rule, snap Snapshot) float64 {
	switch {
	case r.Unit.ScalesByBSA():
		return r.DoseAmount * snap.BSA
	case r.Unit.ScalesByWeight():
		return r.DoseAmount * snap.WeightKg
	default:
		return r.DoseAmount
	}
}

// referenceFrequency es la frecuencia diaria de referencia de la regla.
// IntervalDays ya viene saneado (> 0) desde BuildIndex.
func referenceFrequency(r Rule) float64 {
	return r.DosesPerInterval / r.IntervalDays
}
