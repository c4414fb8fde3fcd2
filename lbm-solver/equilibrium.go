package lbm

// equilibrium fills out with the Maxwell-Boltzmann equilibrium
// distribution for the given density and velocity:
//
//	feq_i = w_i * rho * (1 + 3(e_i.u) + 4.5(e_i.u)^2 - 1.5(u.u))
//
// At rest with rho = 1 this is exactly the weight vector. The out
// parameter keeps the hot loops allocation free.
func equilibrium(rho, ux, uy float64, out *[q]float64) {
	u2 := ux*ux + uy*uy
	for i := 0; i < q; i++ {
		eu := float64(ex[i])*ux + float64(ey[i])*uy
		out[i] = weights[i] * rho * (1 + 3*eu + 4.5*eu*eu - 1.5*u2)
	}
}
