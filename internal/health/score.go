package health

const baselineScore = 100

var gradeDescriptions = map[Grade]string{
	GradeA: "Excellent financial health with strong fundamentals",
	GradeB: "Good financial health with room for improvement",
	GradeC: "Fair financial health - focus on key areas",
	GradeD: "Below average financial health - needs attention",
	GradeF: "Poor financial health - immediate action required",
}

func scoreHealth(t totals, ind indicators) HealthScore {
	score := baselineScore

	switch {
	case ind.debtToIncome > 50:
		score -= 30
	case ind.debtToIncome > 36:
		score -= 20
	case ind.debtToIncome > 25:
		score -= 10
	}

	switch {
	case ind.savingsRate < 0:
		score -= 25
	case ind.savingsRate < 10:
		score -= 20
	case ind.savingsRate < 15:
		score -= 10
	case ind.savingsRate >= 20:
		score += 5
	}

	switch {
	case ind.emergencyFund < 1:
		score -= 25
	case ind.emergencyFund < 3:
		score -= 15
	case ind.emergencyFund < 6:
		score -= 5
	default:
		score += 5
	}

	if t.netWorth < 0 {
		score -= 15
	}

	switch {
	case t.disposable < 0:
		score -= 10
	case t.disposable > 0:
		score += 5
	}

	score = max(0, min(100, score))
	grade := GradeForScore(score)

	return HealthScore{
		Overall:     grade,
		Grade:       score,
		Description: GradeDescription(grade),
	}
}

// GradeForScore переводит итоговый балл 0-100 в буквенную оценку.
func GradeForScore(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// GradeDescription возвращает фиксированное описание буквенной оценки.
func GradeDescription(grade Grade) string {
	return gradeDescriptions[grade]
}
