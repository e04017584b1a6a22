package ports

// DistributionPort is the numeric-distribution capability the statistic
// engine depends on. The engine only needs left-tail CDF evaluation for
// the two test families plus the inverse normal CDF; any implementation
// that provides those can back the pipeline, including stubs in tests.
type DistributionPort interface {
	// StudentTCDF returns P(T <= x) for Student's t with df degrees of freedom.
	StudentTCDF(x, df float64) float64

	// FCDF returns P(F <= x) for the F distribution with (df1, df2) degrees
	// of freedom.
	FCDF(x, df1, df2 float64) float64

	// NormalQuantile returns the standard normal inverse CDF at p.
	NormalQuantile(p float64) float64
}
