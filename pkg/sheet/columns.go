package sheet

import "strings"

// accentReplacer folds the accented characters that occur in the source
// spreadsheets' Portuguese headers.
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
	"º", "", "ª", "",
)

// normalizeToken lower-cases, folds accents, drops punctuation, and
// collapses whitespace runs to a single underscore. It is idempotent:
// already-canonical names come back unchanged.
func normalizeToken(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", " ")
	s = accentReplacer.Replace(s)

	var b strings.Builder
	sep := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '/', r == '_', r == '\t':
			sep = true
		default:
			// punctuation ((), ., %, :) is dropped entirely
		}
	}
	return b.String()
}

// headerAliases maps normalized source-header forms to canonical field
// names, per sheet role. Keys must already be in normalizeToken form.
// Canonical names themselves pass through normalizeToken untouched, so the
// mapping stays idempotent without self-entries.
var headerAliases = map[Role]map[string]string{
	RoleRegistrations: {
		"zona_portuaria":                 FieldPortZone,
		"uf":                             FieldState,
		"obj_de_concessao":               FieldConcessionObject,
		"objeto_de_concessao":            FieldConcessionObject,
		"objeto_concessao":               FieldConcessionObject,
		"tipo":                           FieldContractKind,
		"capex_total":                    FieldTotalCapex,
		"data_de_assinatura_do_contrato": FieldSignedAt,
		"data_assinatura":                FieldSignedAt,
		"descricao":                      FieldDescription,
		"coordenada_e_utm":               FieldCoordEast,
		"coord_e":                        FieldCoordEast,
		"coordenada_s_utm":               FieldCoordNorth,
		"coord_s":                        FieldCoordNorth,
		"fuso":                           FieldUTMZone,
	},
	RoleServices: {
		"zona_portuaria":          FieldPortZone,
		"uf":                      FieldState,
		"obj_de_concessao":        FieldConcessionObject,
		"objeto_de_concessao":     FieldConcessionObject,
		"objeto_concessao":        FieldConcessionObject,
		"tipo_de_servico":         FieldServiceType,
		"tipo_servico":            FieldServiceType,
		"fase":                    FieldPhase,
		"servico":                 FieldServiceName,
		"descricao_do_servico":    FieldDescription,
		"descricao":               FieldDescription,
		"prazo_inicio_anos":       FieldStartOffsetYears,
		"data_de_inicio":          FieldStartDate,
		"data_inicio":             FieldStartDate,
		"prazo_final_anos":        FieldEndOffsetYears,
		"data_final":              FieldEndDate,
		"fonte_prazo":             FieldScheduleSource,
		"de_capex_para_o_servico": FieldCapexShare,
		"percentual_capex":        FieldCapexShare,
		"capex_do_servico":        FieldServiceBudget,
		"capex_servico":           FieldServiceBudget,
		"fonte_do_capex":          FieldShareSource,
		"fonte_percentual":        FieldShareSource,
	},
	RoleUpdates: {
		"zona_portuaria":                FieldPortZone,
		"uf":                            FieldState,
		"obj_de_concessao":              FieldConcessionObject,
		"objeto_de_concessao":           FieldConcessionObject,
		"objeto_concessao":              FieldConcessionObject,
		"tipo_de_servico":               FieldServiceType,
		"tipo_servico":                  FieldServiceType,
		"fase":                          FieldPhase,
		"servico":                       FieldServiceName,
		"descricao":                     FieldDescription,
		"executada":                     FieldExecutedShare,
		"percentual_executado":          FieldExecutedShare,
		"capex_reaj":                    FieldAdjustedBudget,
		"capex_reajustado":              FieldAdjustedBudget,
		"valor_executado":               FieldExecutedValue,
		"data_da_atualizacao":           FieldUpdatedAt,
		"data_atualizacao":              FieldUpdatedAt,
		"responsavel":                   FieldResponsible,
		"cargo":                         FieldRole,
		"setor":                         FieldDepartment,
		"riscos_relacionados_tipo":      FieldRiskKind,
		"riscos_tipo":                   FieldRiskKind,
		"riscos_relacionados_descricao": FieldRiskDescription,
		"riscos_descricao":              FieldRiskDescription,
	},
}

// NormalizeHeader maps a raw header string to the canonical field name for
// the given sheet role. Unmapped headers pass through in normalized form so
// unknown columns never fail an import.
func NormalizeHeader(raw string, role Role) string {
	token := normalizeToken(raw)
	if aliases, ok := headerAliases[role]; ok {
		if canonical, ok := aliases[token]; ok {
			return canonical
		}
	}
	return token
}
