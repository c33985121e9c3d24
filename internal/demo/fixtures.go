package demo

import "bytec/internal/ir"

// Module builds one self-contained ir.Module: a Point class, a Shape
// enum with a payload-bearing variant, a two-value swap, a dynamic-array
// builder/reducer pair, and a run() entry point exercising all of them.
// It exists purely to give cmd/bytecgen a concrete pipeline to drive —
// see internal/demo's package doc.
func Module(in *Interner) ir.Module {
	pointClass := in.NewClass("Point")
	xSym := in.Create(ir.Path{"Point", "x"}, true)
	ySym := in.Create(ir.Path{"Point", "y"}, true)

	point := ir.ItemClass{
		Class: pointClass,
		Groups: []ir.ClassGroup{
			{
				Members: []ir.ClassMember{
					{Name: xSym, Ty: ir.I32, Init: ir.TermLit{Lit: ir.Literal{Kind: ir.LitInt, Int: 0}, Ty: ir.I32}},
					{Name: ySym, Ty: ir.I32, Init: ir.TermLit{Lit: ir.Literal{Kind: ir.LitInt, Int: 0}, Ty: ir.I32}},
				},
			},
		},
	}

	shapeClass := in.NewClass("Shape")
	shape := ir.ItemEnum{
		Class: shapeClass,
		Variants: []ir.EnumVariant{
			{Name: in.Raw("Circle"), PayloadTypes: []ir.Type{ir.I32}},
			{Name: in.Raw("Square")},
		},
	}

	swapId := in.NewFn("swap", true)
	aSym := in.Create(ir.Path{"swap", "a"}, false)
	bSym := in.Create(ir.Path{"swap", "b"}, false)
	swap := ir.ItemFn{
		Name: in.Raw("swap"),
		Fn: ir.Fn{
			Id:   swapId,
			Args: []ir.FnArg{{Name: aSym, Ty: ir.I32}, {Name: bSym, Ty: ir.I32}},
			RetTy: ir.TupleOf(ir.I32, ir.I32),
			Body: ir.TermTuple{Elems: []ir.Term{ir.TermVar{Sym: bSym}, ir.TermVar{Sym: aSym}}},
			Public: true,
		},
	}

	buildRangeId := in.NewFn("buildRange", true)
	nSym := in.Create(ir.Path{"buildRange", "n"}, false)
	arrSym := in.Create(ir.Path{"buildRange", "arr"}, false)
	iSym := in.Create(ir.Path{"buildRange", "i"}, false)
	buildRange := ir.ItemFn{
		Name: in.Raw("buildRange"),
		Fn: ir.Fn{
			Id:     buildRangeId,
			Args:   []ir.FnArg{{Name: nSym, Ty: ir.I32}},
			RetTy:  ir.ArrayOf(ir.I32),
			Public: true,
			Body: ir.TermBlock{
				Stmts: []ir.Statement{
					ir.StmtLet{Name: arrSym, Ty: ir.ArrayOf(ir.I32), Init: ir.TermArrayLit{ElemTy: ir.I32}},
					ir.StmtLet{Name: iSym, Ty: ir.I32, Init: intLit(0)},
					ir.StmtWhile{
						Cond: ir.TermBinOp{Op: ir.OpLt, L: ir.TermVar{Sym: iSym}, R: ir.TermVar{Sym: nSym}},
						Body: []ir.Statement{
							ir.StmtTerm{X: ir.TermArrayOp{Kind: ir.ArrayPush, Array: ir.TermVar{Sym: arrSym}, Arg: ir.TermVar{Sym: iSym}}},
							ir.StmtAssign{
								LValue: ir.TermVar{Sym: iSym},
								RHS:    ir.TermBinOp{Op: ir.OpAdd, L: ir.TermVar{Sym: iSym}, R: intLit(1)},
							},
						},
					},
				},
				Tail: ir.TermVar{Sym: arrSym},
			},
		},
	}

	sumArrayId := in.NewFn("sumArray", true)
	arrParamSym := in.Create(ir.Path{"sumArray", "values"}, false)
	totalSym := in.Create(ir.Path{"sumArray", "total"}, false)
	elemSym := in.Create(ir.Path{"sumArray", "v"}, false)
	sumArray := ir.ItemFn{
		Name: in.Raw("sumArray"),
		Fn: ir.Fn{
			Id:     sumArrayId,
			Args:   []ir.FnArg{{Name: arrParamSym, Ty: ir.ArrayOf(ir.I32)}},
			RetTy:  ir.I32,
			Public: true,
			Body: ir.TermBlock{
				Stmts: []ir.Statement{
					ir.StmtLet{Name: totalSym, Ty: ir.I32, Init: intLit(0)},
					ir.StmtForIn{
						Name:  elemSym,
						Array: ir.TermVar{Sym: arrParamSym},
						Body: []ir.Statement{
							ir.StmtAssign{
								LValue: ir.TermVar{Sym: totalSym},
								RHS:    ir.TermBinOp{Op: ir.OpAdd, L: ir.TermVar{Sym: totalSym}, R: ir.TermVar{Sym: elemSym}},
							},
						},
					},
				},
				Tail: ir.TermVar{Sym: totalSym},
			},
		},
	}

	runId := in.NewFn("run", true)
	pSym := in.Create(ir.Path{"run", "p"}, false)
	sSym := in.Create(ir.Path{"run", "shape"}, false)
	swappedSym := in.Create(ir.Path{"run", "swapped"}, false)
	rangeSym := in.Create(ir.Path{"run", "range"}, false)
	reportSym := in.Create(ir.Path{"run", "report"}, false)
	circleVariant := in.Raw("Circle")
	payloadSym := in.Create(ir.Path{"run", "radius"}, false)

	run := ir.ItemFn{
		Name: in.Raw("run"),
		Fn: ir.Fn{
			Id:     runId,
			RetTy:  ir.I32,
			Public: true,
			Body: ir.TermBlock{
				Stmts: []ir.Statement{
					ir.StmtLet{Name: pSym, Ty: ir.ClassType(pointClass), Init: ir.TermNew{Class: pointClass}},
					ir.StmtLet{Name: sSym, Ty: ir.ClassType(shapeClass), Init: ir.TermVariant{
						Enum: shapeClass, Variant: circleVariant, Args: []ir.Term{intLit(7)},
					}},
					ir.StmtLet{Name: swappedSym, Ty: ir.TupleOf(ir.I32, ir.I32), Init: ir.TermCall{
						Fn: swapId, Args: []ir.Term{intLit(1), intLit(2)},
					}},
					ir.StmtLet{Name: rangeSym, Ty: ir.ArrayOf(ir.I32), Init: ir.TermCall{
						Fn: buildRangeId, Args: []ir.Term{intLit(5)},
					}},
					ir.StmtLet{Name: reportSym, Ty: ir.I32, Init: ir.TermCall{
						Fn: sumArrayId, Args: []ir.Term{ir.TermVar{Sym: rangeSym}},
					}},
				},
				Tail: ir.TermMatch{
					Scrutinee: ir.TermVar{Sym: sSym},
					Arms: []ir.MatchArm{
						{
							Variant: &circleVariant,
							Binds:   []ir.Sym{payloadSym},
							Body: ir.TermBinOp{
								Op: ir.OpAdd,
								L:  ir.TermTupleIdx{Tuple: ir.TermVar{Sym: swappedSym}, Index: 0},
								R:  ir.TermBinOp{Op: ir.OpAdd, L: ir.TermVar{Sym: payloadSym}, R: ir.TermVar{Sym: reportSym}},
							},
						},
						{
							Body: ir.TermTupleIdx{Tuple: ir.TermVar{Sym: swappedSym}, Index: 1},
						},
					},
				},
			},
		},
	}

	return ir.Module{
		Name: "demo",
		Items: []ir.Item{point, shape, swap, buildRange, sumArray, run},
	}
}

func intLit(n int64) ir.Term {
	return ir.TermLit{Lit: ir.Literal{Kind: ir.LitInt, Int: n}, Ty: ir.I32}
}
